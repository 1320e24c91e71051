// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package evaluation

import (
	"fmt"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/recommend/stats"
)

// Report holds every non-personalised metric for one k.
type Report struct {
	Metric                 string  `json:"metric"`
	K                      int     `json:"k"`
	Coverage               float64 `json:"coverage"`
	RecommendationCoverage float64 `json:"recommendation_coverage"`
	ItemSpaceCoverage      float64 `json:"item_space_coverage"`
	Relevance              float64 `json:"relevance"`
	Popularity             float64 `json:"popularity"`
	Similarity             float64 `json:"similarity"`
}

// Evaluator computes quality metrics for a single-target recommender.
type Evaluator struct {
	catalog       *recommend.Catalog
	metric        string
	ids           []int
	recs          map[int][]*recommend.Item
	maxPopularity int
}

// NewEvaluator materialises the full ranked list of every catalog item.
func NewEvaluator(rec *algorithms.SingleTarget) *Evaluator {
	catalog := rec.Catalog()
	ids := catalog.IDs()

	recs := make(map[int][]*recommend.Item, len(ids))
	for _, id := range ids {
		item, _ := catalog.Get(id)
		recs[id] = rec.Recommend(item)
	}

	return &Evaluator{
		catalog:       catalog,
		metric:        rec.Metric().Name(),
		ids:           ids,
		recs:          recs,
		maxPopularity: catalog.MaxRatingCount(),
	}
}

// Recommendations returns the materialised list for an item.
func (e *Evaluator) Recommendations(itemID int) []*recommend.Item {
	return e.recs[itemID]
}

// Coverage returns the fraction of items with at least one recommendation.
func (e *Evaluator) Coverage() float64 {
	if len(e.ids) == 0 {
		return 0
	}
	n := 0
	for _, id := range e.ids {
		if len(e.recs[id]) > 0 {
			n++
		}
	}
	return float64(n) / float64(len(e.ids))
}

// RecommendationCoverage returns the fraction of catalog items that appear in
// at least one top-k list.
func (e *Evaluator) RecommendationCoverage(k int) float64 {
	if len(e.ids) == 0 {
		return 0
	}
	seen := make(map[int]struct{})
	for _, id := range e.ids {
		for _, it := range algorithms.TopK(e.recs[id], k) {
			seen[it.ID] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(len(e.ids))
}

// ItemSpaceCoverage returns the mean, over items with recommendations, of the
// fraction of the other items that could be recommended.
func (e *Evaluator) ItemSpaceCoverage() float64 {
	others := len(e.ids) - 1
	var sum float64
	n := 0
	for _, id := range e.ids {
		recs := e.recs[id]
		if len(recs) == 0 {
			continue
		}
		if others > 0 {
			sum += float64(len(recs)) / float64(others)
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RecommendationRelevance returns the mean, over items with recommendations,
// of the mean rating of their top-k recommendations.
func (e *Evaluator) RecommendationRelevance(k int) float64 {
	v, _ := e.meanOverTopK(k, func(_, rec *recommend.Item) (float64, error) {
		return rec.MeanRating(), nil
	})
	return v
}

// RecommendationPopularity returns the mean, over items with
// recommendations, of the mean normalised rating count of their top-k
// recommendations.
func (e *Evaluator) RecommendationPopularity(k int) float64 {
	if e.maxPopularity == 0 {
		return 0
	}
	maxPop := float64(e.maxPopularity)
	v, _ := e.meanOverTopK(k, func(_, rec *recommend.Item) (float64, error) {
		return float64(rec.RatingCount()) / maxPop, nil
	})
	return v
}

// RecommendationSimilarity returns the mean, over items with
// recommendations, of the mean Pearson correlation between the target's
// genome vector and each top-k recommendation's genome vector.
//
// Genome vectors must share the same tag set. A violation is returned as an
// error wrapping stats.ErrInvalidArgument.
func (e *Evaluator) RecommendationSimilarity(k int) (float64, error) {
	return e.meanOverTopK(k, func(target, rec *recommend.Item) (float64, error) {
		r, err := stats.Pearson(target.Genome, rec.Genome)
		if err != nil {
			return 0, fmt.Errorf("genome correlation of items %d and %d: %w", target.ID, rec.ID, err)
		}
		return r, nil
	})
}

// Report computes every metric for k.
func (e *Evaluator) Report(k int) (Report, error) {
	sim, err := e.RecommendationSimilarity(k)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Metric:                 e.metric,
		K:                      k,
		Coverage:               e.Coverage(),
		RecommendationCoverage: e.RecommendationCoverage(k),
		ItemSpaceCoverage:      e.ItemSpaceCoverage(),
		Relevance:              e.RecommendationRelevance(k),
		Popularity:             e.RecommendationPopularity(k),
		Similarity:             sim,
	}, nil
}

// meanOverTopK averages score over each item's top-k list, then averages
// those means over the items whose list is non-empty.
func (e *Evaluator) meanOverTopK(k int, score func(target, rec *recommend.Item) (float64, error)) (float64, error) {
	var total float64
	n := 0
	for _, id := range e.ids {
		top := algorithms.TopK(e.recs[id], k)
		if len(top) == 0 {
			continue
		}
		target, _ := e.catalog.Get(id)

		var sum float64
		for _, rec := range top {
			v, err := score(target, rec)
			if err != nil {
				return 0, err
			}
			sum += v
		}
		total += sum / float64(len(top))
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return total / float64(n), nil
}
