// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinematch/internal/middleware"
)

// RouterConfig is the transport policy of the HTTP API.
type RouterConfig struct {
	// CORSOrigins lists the allowed origins. Empty disables cross-origin
	// access.
	CORSOrigins []string

	// RateLimitRequests is the per-IP budget for /api/v1 per
	// RateLimitWindow. Zero disables the limiter.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter mounts the handler's endpoints:
//
//	GET  /health, /health/live, /health/ready
//	GET  /metrics
//	GET  /api/v1/similarity-metrics
//	GET  /api/v1/stats
//	GET  /api/v1/items?q=&limit=
//	GET  /api/v1/items/{itemID}
//	GET  /api/v1/items/{itemID}/similar
//	POST /api/v1/recommendations
//	POST /api/v1/evaluations
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Metrics and latency run outside the mux so the matched route pattern
	// is set when they record.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(cfg.CORSOrigins))
	r.Use(middleware.PrometheusMetrics)
	if h.latency != nil {
		r.Use(h.latency.Middleware)
	}
	r.Use(middleware.Compression)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(securityHeaders)
		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 {
			r.Use(ipRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		r.Use(securityHeaders)

		r.Get("/similarity-metrics", h.SimilarityMetrics)
		r.Get("/stats", h.Stats)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.SearchItems)
			r.Get("/{itemID}", h.GetItem)
			r.Get("/{itemID}/similar", h.SimilarItems)
		})

		r.Post("/recommendations", h.Recommendations)
		r.With(h.evaluationLimit).Post("/evaluations", h.Evaluations)
	})

	return r
}
