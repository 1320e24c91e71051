// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package reranking implements post-processing of ranked recommendation lists.
//
// Rerankers operate on already-scored recommendations and reorder them to
// balance relevance against another objective:
//
//	Recommender -> ranked list -> Reranker -> final top-k
//
// MMR penalises items similar to those already picked, using any
// recommend.Metric. Calibration pulls the genre and decade mix of the list
// towards that of the target items. Both take a lambda in [0, 1] where 1 is
// pure relevance.
//
// Relevance is the input score divided by the list's maximum score, so
// rerankers work with any metric's scale.
//
//	scored := single.Scored(target)
//	mmr := reranking.NewMMR(0.7, nil)
//	top := mmr.Rerank(ctx, scored, 10)
//
// Rerankers are stateless after construction and safe for concurrent use.
package reranking
