// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

// Defaults applied by NewHandler to zero HandlerConfig fields.
const (
	defaultRequestTimeout = 90 * time.Second
	defaultMetricName     = similarity.NameGenreJaccard
	defaultStrategy       = "max"
)

// HandlerConfig configures the API handlers.
type HandlerConfig struct {
	Version string

	// DefaultMetric is used when a request names no metric.
	DefaultMetric string

	// RequestTimeout bounds the engine work of one request.
	RequestTimeout time.Duration

	// EvaluationsPerMinute and EvaluationBurst size the global evaluation
	// token bucket. EvaluationsPerMinute <= 0 disables the limit.
	EvaluationsPerMinute int
	EvaluationBurst      int

	// Latency, when set, is measured by the router and reported by /stats.
	Latency *middleware.LatencyTracker
}

// Handler serves the HTTP API over an engine.
type Handler struct {
	engine         *engine.Engine
	latency        *middleware.LatencyTracker
	evalLimiter    *rate.Limiter
	version        string
	defaultMetric  string
	requestTimeout time.Duration
	startTime      time.Time
	ready          atomic.Bool
}

// NewHandler creates the API handlers. The handler reports not ready until
// SetReady(true) is called.
func NewHandler(eng *engine.Engine, cfg HandlerConfig) *Handler {
	h := &Handler{
		engine:         eng,
		latency:        cfg.Latency,
		version:        cfg.Version,
		defaultMetric:  cfg.DefaultMetric,
		requestTimeout: cfg.RequestTimeout,
		startTime:      time.Now(),
	}
	if h.defaultMetric == "" {
		h.defaultMetric = defaultMetricName
	}
	if h.requestTimeout <= 0 {
		h.requestTimeout = defaultRequestTimeout
	}
	if cfg.EvaluationsPerMinute > 0 {
		burst := max(cfg.EvaluationBurst, 1)
		h.evalLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.EvaluationsPerMinute)), burst)
	}
	return h
}

// SetReady marks the engine as warm (or not) for the readiness probe.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Ready reports whether warm-up has finished.
func (h *Handler) Ready() bool {
	return h.ready.Load()
}

// evaluationLimit rejects evaluations once the global token bucket is empty.
func (h *Handler) evaluationLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.evalLimiter != nil && !h.evalLimiter.Allow() {
			rateLimited(limiterEvaluations)(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NotFound answers unmatched routes with the JSON envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).NotFound("No route for " + sanitizeLogValue(r.URL.Path))
}

// MethodNotAllowed answers wrong-method requests with the JSON envelope.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method "+r.Method+" not allowed")
}
