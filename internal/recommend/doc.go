// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend defines the core data model for content-based movie
// recommendation.
//
// # Architecture
//
// The package holds the leaf types every other component is built on:
//
//   - Item: an immutable movie with genres, genome scores and ratings
//   - Catalog: the in-memory item collection, iterated in insertion order
//   - Matrix: a sparse (row, col) -> value store; absent entries read as 0
//   - Metric: the similarity contract, including its Symmetry capability flag
//
// Subpackages implement the rest of the pipeline:
//
//   - similarity: the metric family (genre, genome, ratings, confidence,
//     popularity, sentiment)
//   - algorithms: the association builder and the single/multi-target
//     recommenders
//   - evaluation: non-personalised and personalised evaluators
//   - stats: Pearson correlation, mean/stdev and histograms
//
// # Usage
//
//	catalog := recommend.NewCatalog(items...)
//	metric := similarity.NewGenreJaccard()
//
//	rec, err := algorithms.NewSingleTarget(ctx, catalog, metric, cfg.Build)
//	if err != nil {
//	    return err
//	}
//	recs := rec.Recommend(target)
//
// # Ranking
//
// Every ranked list is ordered by score descending with ties broken by item
// ID ascending, so results are deterministic across runs.
//
// # Thread Safety
//
// Catalogs and matrices are mutated only during construction. Once built they
// are safe for any number of concurrent readers.
package recommend
