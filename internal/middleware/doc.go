// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides chi-compatible HTTP middleware for the API server.

Key Components:

  - Request ID: UUID-based request tracking, propagated into the logging context
  - Prometheus Metrics: request counts, latencies and in-flight gauge per route pattern
  - Latency Tracker: rolling per-route latency percentiles for the stats endpoint
  - Compression: gzip for responses of at least 1KB

Middleware Stack:

Every middleware has the signature func(http.Handler) http.Handler and is
mounted with chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(tracker.Middleware)
	r.Use(middleware.Compression)

Metrics are labelled with the chi route pattern (for example
"/api/v1/items/{itemID}") rather than the raw path, which keeps label
cardinality bounded. Requests that match no route are labelled "unmatched".

Thread Safety:

All middleware components are safe for concurrent use. The latency tracker
guards its ring buffers with a mutex; the others keep per-request state only.
*/
package middleware
