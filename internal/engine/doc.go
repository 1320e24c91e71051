// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package engine coordinates similarity metrics, association builds and
// evaluations over one loaded catalog.
//
// Building an association matrix is quadratic in the catalog size, so built
// recommenders are kept in an LRU cache keyed by canonical metric name.
// Concurrent requests for the same uncached metric share a single build.
//
// # Usage
//
//	eng, err := engine.NewEngine(ds.Catalog, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	list, err := eng.Similar(ctx, 1, "genre_jaccard", 10, engine.RerankOptions{})
//
// The CLI and the HTTP API both sit on top of an Engine. All methods are safe
// for concurrent use.
package engine
