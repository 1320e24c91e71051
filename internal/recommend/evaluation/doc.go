// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package evaluation computes offline quality metrics for recommenders.
//
// Evaluator scores a single-target recommender over every catalog item:
// coverage, recommendation coverage, item space coverage, and the mean
// relevance, popularity and genome similarity of the top-k lists. Its means
// are taken over items that received at least one recommendation.
//
// PersonalisedEvaluator scores a multi-target recommender against held-out
// ratings: precision, recall and F1 at k, averaged over every test user, and
// user coverage.
//
// Both evaluators materialise their recommendation lists once at construction
// and are read-only afterwards.
package evaluation
