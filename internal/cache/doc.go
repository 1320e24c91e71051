// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package cache provides a thread-safe LRU cache with TTL support.

The engine uses it to keep built recommenders keyed by metric name, so an
association matrix is computed once per metric and reused by every request
until it expires or is evicted.

# Overview

The cache provides:
  - O(1) Get, Add and Remove
  - O(1) least-recently-used eviction at capacity
  - Lazy TTL expiration on Get, plus CleanupExpired for periodic sweeps
  - Hit and miss counters

# Usage

	c := cache.NewLRU[*algorithms.SingleTarget](16, time.Hour)
	c.Add("genre_jaccard", rec)
	if rec, ok := c.Get("genre_jaccard"); ok {
		// use rec
	}

# Thread Safety

All methods are safe for concurrent use.
*/
package cache
