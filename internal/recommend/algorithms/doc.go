// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package algorithms builds association matrices and the recommenders that
// rank items from them.
//
// # Building
//
// BuildAssociations computes every positive pairwise score of a catalog under
// one recommend.Metric. The metric's Symmetry decides whether each unordered
// pair is scored once and mirrored, or scored in both directions:
//
//	m, err := algorithms.BuildAssociations(ctx, catalog, metric, cfg.Build)
//
// The build runs on an errgroup limited to BuildConfig.NumWorkers and yields
// the same matrix for any worker count.
//
// # Recommenders
//
//   - SingleTarget: items similar to one target
//   - MaxTarget: items scored by their strongest association to a target set
//   - MeanTarget: items scored by their mean association over a target set
//
// Every recommender ranks by score descending, then item ID ascending, and
// only returns candidates with a positive score.
//
// # Thread Safety
//
// Recommenders are immutable once constructed and safe for concurrent use.
package algorithms
