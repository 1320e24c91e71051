// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/middleware"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string   `json:"status"`
	Version       string   `json:"version,omitempty"`
	Ready         bool     `json:"ready"`
	Items         int      `json:"items"`
	CachedMetrics []string `json:"cached_metrics"`
	Uptime        float64  `json:"uptime_seconds"`
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	Engine  engine.Stats               `json:"engine"`
	Latency []middleware.EndpointStats `json:"latency"`
}

// Health reports overall service state. The status is "warming" until the
// configured metrics have been built.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Stats()
	status := "healthy"
	if !h.Ready() {
		status = "warming"
	}

	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        status,
		Version:       h.version,
		Ready:         h.Ready(),
		Items:         st.Items,
		CachedMetrics: st.CachedNames,
		Uptime:        time.Since(h.startTime).Seconds(),
	})
}

// HealthLive returns 200 while the process is alive.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 once warm-up has finished and 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.Ready() {
		rw.ServiceUnavailable("Associations are still being built")
		return
	}
	rw.Success(map[string]any{"ready": true})
}

// Stats reports engine cache state and per-route latency.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Engine:  h.engine.Stats(),
		Latency: []middleware.EndpointStats{},
	}
	if h.latency != nil {
		resp.Latency = h.latency.Stats()
	}
	NewResponseWriter(w, r).Success(resp)
}
