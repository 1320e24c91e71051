// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"sort"
	"strings"
)

// DefaultExcludedGenre is the generic tag dropped from every genre set at ingestion.
const DefaultExcludedGenre = "imax"

// Symmetry declares whether a metric satisfies s(a,b) == s(b,a) for every pair.
type Symmetry int

const (
	// Symmetric metrics are computed once per unordered pair.
	Symmetric Symmetry = iota
	// Directional metrics are computed independently in each direction.
	Directional
)

// String returns a human-readable name for the symmetry.
func (s Symmetry) String() string {
	switch s {
	case Symmetric:
		return "symmetric"
	case Directional:
		return "directional"
	default:
		return "unknown"
	}
}

// Metric computes a directed, non-negative similarity from item a to item b.
//
// Implementations return 0 for any missing attribute or degenerate case and
// must report their symmetry through Symmetry rather than leaving callers to
// infer it from output values.
type Metric interface {
	// Name returns the metric identifier (e.g. "genre_jaccard").
	Name() string

	// Symmetry reports how the association builder may treat the metric.
	Symmetry() Symmetry

	// Similarity returns the association score from a to b.
	Similarity(a, b *Item) float64
}

// GenreSet is a set of normalized genre tags.
type GenreSet map[string]struct{}

// NewGenreSet normalizes the given tags: lower-cased, trimmed, deduplicated,
// with empty tags and the excluded tag removed.
func NewGenreSet(tags []string, excluded string) GenreSet {
	excluded = strings.ToLower(strings.TrimSpace(excluded))
	set := make(GenreSet, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || (excluded != "" && tag == excluded) {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

// Has reports whether the tag is present.
func (g GenreSet) Has(tag string) bool {
	_, ok := g[tag]
	return ok
}

// Sorted returns the tags in ascending order.
func (g GenreSet) Sorted() []string {
	out := make([]string, 0, len(g))
	for tag := range g {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Item represents a movie with the attributes similarity metrics read.
// Items are immutable once added to a catalog. Identity is by ID alone.
type Item struct {
	// ID is the unique movie identifier.
	ID int `json:"id"`

	// Title is the movie title without the release year.
	Title string `json:"title"`

	// Year is the release year.
	Year int `json:"year"`

	// Genres is the normalized genre set.
	Genres GenreSet `json:"-"`

	// Genome maps tag id to relevance score. May be empty.
	Genome map[int]float64 `json:"-"`

	// Ratings maps user id to rating. May be empty.
	Ratings map[int]float64 `json:"-"`
}

// NewItem creates an item, normalizing genres with DefaultExcludedGenre.
// Nil genome or ratings maps are replaced with empty ones.
func NewItem(id int, title string, year int, genres []string, genome, ratings map[int]float64) *Item {
	if genome == nil {
		genome = map[int]float64{}
	}
	if ratings == nil {
		ratings = map[int]float64{}
	}
	return &Item{
		ID:      id,
		Title:   title,
		Year:    year,
		Genres:  NewGenreSet(genres, DefaultExcludedGenre),
		Genome:  genome,
		Ratings: ratings,
	}
}

// MeanRating returns the mean of the item's ratings, or 0 when it has none.
func (it *Item) MeanRating() float64 {
	if len(it.Ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range it.Ratings {
		sum += r
	}
	return sum / float64(len(it.Ratings))
}

// RatingCount returns the number of ratings the item has received.
func (it *Item) RatingCount() int {
	return len(it.Ratings)
}

// Equal reports whether two items are the same entity.
func (it *Item) Equal(other *Item) bool {
	if it == nil || other == nil {
		return it == other
	}
	return it.ID == other.ID
}

// ScoredItem pairs an item with its ranking score.
type ScoredItem struct {
	Item  *Item   `json:"item"`
	Score float64 `json:"score"`
}

// SortScored orders items by score descending, then by item ID ascending.
func SortScored(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID < items[j].Item.ID
	})
}

// ItemsOf strips scores, preserving order.
func ItemsOf(scored []ScoredItem) []*Item {
	out := make([]*Item, len(scored))
	for i, s := range scored {
		out[i] = s.Item
	}
	return out
}
