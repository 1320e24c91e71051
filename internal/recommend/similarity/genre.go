// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package similarity

import "github.com/tomtom215/cinematch/internal/recommend"

// GenreOverlap scores |A∩B| / min(|A|, |B|) over genre sets.
type GenreOverlap struct {
	baseMetric
}

// NewGenreOverlap creates the genre overlap metric.
func NewGenreOverlap() *GenreOverlap {
	return &GenreOverlap{baseMetric{name: NameGenreOverlap, symmetry: recommend.Symmetric}}
}

// Similarity returns the overlap coefficient of the genre sets.
func (g *GenreOverlap) Similarity(a, b *recommend.Item) float64 {
	smaller := min(len(a.Genres), len(b.Genres))
	if smaller == 0 {
		return 0
	}
	return float64(intersection(a.Genres, b.Genres)) / float64(smaller)
}

// GenreJaccard scores |A∩B| / |A∪B| over genre sets.
type GenreJaccard struct {
	baseMetric
}

// NewGenreJaccard creates the genre Jaccard metric.
func NewGenreJaccard() *GenreJaccard {
	return &GenreJaccard{baseMetric{name: NameGenreJaccard, symmetry: recommend.Symmetric}}
}

// Similarity returns the Jaccard index of the genre sets.
func (g *GenreJaccard) Similarity(a, b *recommend.Item) float64 {
	inter := intersection(a.Genres, b.Genres)
	union := len(a.Genres) + len(b.Genres) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// intersection counts the tags present in both sets.
func intersection(a, b recommend.GenreSet) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for tag := range a {
		if b.Has(tag) {
			n++
		}
	}
	return n
}
