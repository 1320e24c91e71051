// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package reranking

import (
	"context"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// Reranker reorders a scored list and returns at most k items.
type Reranker interface {
	Name() string
	Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem
}

// boundK clamps k to the list length and maxRerankSize.
func boundK(k, n int) int {
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > n {
		k = n
	}
	return k
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// relevance returns each score divided by the largest score.
func relevance(items []recommend.ScoredItem) []float64 {
	out := make([]float64, len(items))
	var top float64
	for _, it := range items {
		top = max(top, it.Score)
	}
	if top <= 0 {
		return out
	}
	for i, it := range items {
		out[i] = it.Score / top
	}
	return out
}
