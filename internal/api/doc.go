// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api provides the HTTP interface to the recommendation engine.

Routing uses the Chi router with production-proven middleware from the Chi
ecosystem (go-chi/cors, go-chi/httprate) plus the project's own request ID,
Prometheus, latency and compression middleware.

# Endpoints

Health and monitoring:

	GET  /health                          overall status, catalog size, cached builds
	GET  /health/live                     liveness probe
	GET  /health/ready                    readiness probe (503 until warm-up finishes)
	GET  /metrics                         Prometheus exposition

Recommendations (rate limited per client IP):

	GET  /api/v1/similarity-metrics       known metric names
	GET  /api/v1/items?q=&limit=          title search, most-rated first
	GET  /api/v1/items/{itemID}           item details
	GET  /api/v1/items/{itemID}/similar   single-target list (?metric=&k=&diversity=&calibrate=)
	POST /api/v1/recommendations          multi-target list for liked items
	POST /api/v1/evaluations              non-personalised evaluation report
	GET  /api/v1/stats                    engine cache and latency statistics

Evaluations walk every catalog item and share a global token bucket; clients
receive 429 when it is exhausted.

# Response Format

Every JSON response uses the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "...", "message": "...", "details": ..., "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 12}
	}

Request bodies and query parameters are validated with go-playground/validator
before reaching the engine. Validation failures return 400 with
VALIDATION_ERROR and per-field details.
*/
package api
