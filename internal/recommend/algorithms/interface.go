// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// baseRecommender holds the state shared by every built recommender: the
// catalog, the metric and the association matrix computed from them.
// All fields are set once at construction and read-only afterwards.
type baseRecommender struct {
	catalog       *recommend.Catalog
	metric        recommend.Metric
	assoc         *recommend.Matrix
	builtAt       time.Time
	buildDuration time.Duration
}

// newBaseRecommender builds the association matrix for catalog under metric.
func newBaseRecommender(ctx context.Context, catalog *recommend.Catalog, metric recommend.Metric, cfg recommend.BuildConfig) (baseRecommender, error) {
	start := time.Now()
	assoc, err := BuildAssociations(ctx, catalog, metric, cfg)
	if err != nil {
		return baseRecommender{}, err
	}
	return baseRecommender{
		catalog:       catalog,
		metric:        metric,
		assoc:         assoc,
		builtAt:       time.Now(),
		buildDuration: time.Since(start),
	}, nil
}

// Catalog returns the catalog the recommender was built from.
func (b *baseRecommender) Catalog() *recommend.Catalog {
	return b.catalog
}

// Metric returns the similarity metric.
func (b *baseRecommender) Metric() recommend.Metric {
	return b.metric
}

// Associations returns the association matrix. It must not be modified.
func (b *baseRecommender) Associations() *recommend.Matrix {
	return b.assoc
}

// BuiltAt returns when the association matrix was completed.
func (b *baseRecommender) BuiltAt() time.Time {
	return b.builtAt
}

// BuildDuration returns how long the association build took.
func (b *baseRecommender) BuildDuration() time.Duration {
	return b.buildDuration
}

// emptyScored is returned instead of nil so callers always get a list.
func emptyScored() []recommend.ScoredItem {
	return []recommend.ScoredItem{}
}

// TopK returns the first k elements of xs, or all of them when k exceeds the
// length. Non-positive k yields an empty slice.
func TopK[T any](xs []T, k int) []T {
	if k <= 0 {
		return xs[:0]
	}
	if k > len(xs) {
		k = len(xs)
	}
	return xs[:k]
}

// Ensure all recommenders implement the interface.
var (
	_ MultiTarget = (*MaxTarget)(nil)
	_ MultiTarget = (*MeanTarget)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
