// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package reranking

import (
	"context"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

// MMR is Maximal Marginal Relevance reranking (Carbonell and Goldstein,
// SIGIR 1998). Each pick maximises
//
//	lambda*rel(i) - (1-lambda)*max sim(i, s) over already picked s
//
// where rel is the score scaled by the list's top score and sim is the
// configured metric. Lambda 1 keeps the input order.
type MMR struct {
	lambda float64
	metric recommend.Metric
}

// NewMMR creates a new MMR reranker. A nil metric selects genre Jaccard.
func NewMMR(lambda float64, metric recommend.Metric) *MMR {
	if metric == nil {
		metric = similarity.NewGenreJaccard()
	}
	return &MMR{lambda: clamp01(lambda), metric: metric}
}

func (m *MMR) Name() string { return "mmr" }

// Lambda returns the relevance weight.
func (m *MMR) Lambda() float64 {
	return m.lambda
}

// Rerank selects up to k items greedily by MMR score. Ties keep input order.
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if len(items) == 0 || k <= 0 {
		return items[:0]
	}
	k = boundK(k, len(items))

	if m.lambda >= 1 {
		return items[:k]
	}

	rel := relevance(items)
	// penalty[i] is the highest similarity of i to any picked item.
	penalty := make([]float64, len(items))
	used := make([]bool, len(items))
	out := make([]recommend.ScoredItem, 0, k)

	for len(out) < k && ctx.Err() == nil {
		pick, best := -1, 0.0
		for i := range items {
			if used[i] {
				continue
			}
			if v := m.lambda*rel[i] - (1-m.lambda)*penalty[i]; pick < 0 || v > best {
				pick, best = i, v
			}
		}
		if pick < 0 {
			break
		}
		used[pick] = true
		out = append(out, items[pick])

		for i := range items {
			if !used[i] {
				penalty[i] = max(penalty[i], m.metric.Similarity(items[i].Item, items[pick].Item))
			}
		}
	}
	return out
}

var _ Reranker = (*MMR)(nil)
