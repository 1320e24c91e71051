// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// SingleTarget recommends items similar to one target item.
//
// The association matrix is computed once at construction. The recommender is
// read-only afterwards and safe for concurrent use.
type SingleTarget struct {
	baseRecommender
}

// NewSingleTarget builds the association matrix for catalog under metric.
func NewSingleTarget(ctx context.Context, catalog *recommend.Catalog, metric recommend.Metric, cfg recommend.BuildConfig) (*SingleTarget, error) {
	base, err := newBaseRecommender(ctx, catalog, metric, cfg)
	if err != nil {
		return nil, err
	}
	return &SingleTarget{baseRecommender: base}, nil
}

// Recommend returns every item with a positive association from target,
// ordered by score descending then ID ascending. The target never appears in
// its own list.
func (s *SingleTarget) Recommend(target *recommend.Item) []*recommend.Item {
	return recommend.ItemsOf(s.Scored(target))
}

// Scored is Recommend with the association scores attached.
func (s *SingleTarget) Scored(target *recommend.Item) []recommend.ScoredItem {
	if target == nil {
		return emptyScored()
	}

	row := s.assoc.Row(target.ID)
	out := make([]recommend.ScoredItem, 0, len(row))
	for id, score := range row {
		if id == target.ID || score <= 0 {
			continue
		}
		item, ok := s.catalog.Get(id)
		if !ok {
			continue
		}
		out = append(out, recommend.ScoredItem{Item: item, Score: score})
	}

	recommend.SortScored(out)
	return out
}

// Multi returns a multi-target recommender sharing this recommender's
// association matrix.
func (s *SingleTarget) Multi(agg Aggregation) MultiTarget {
	core := multiTarget{baseRecommender: s.baseRecommender, agg: agg}
	if agg == AggregateMean {
		return &MeanTarget{core}
	}
	return &MaxTarget{core}
}
