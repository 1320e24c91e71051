// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/cinematch/internal/logging"
)

// EndpointStats contains aggregated latency statistics for one route.
type EndpointStats struct {
	Route    string  `json:"route"`
	Requests int64   `json:"requests"`
	Samples  int     `json:"samples"`
	MeanMS   float64 `json:"mean_ms"`
	P50MS    float64 `json:"p50_ms"`
	P95MS    float64 `json:"p95_ms"`
	P99MS    float64 `json:"p99_ms"`
	MaxMS    float64 `json:"max_ms"`
}

// ring holds the most recent latency samples of a route, in milliseconds.
type ring struct {
	values []float64
	next   int
	count  int64
}

func (r *ring) add(v float64) {
	if len(r.values) < cap(r.values) {
		r.values = append(r.values, v)
	} else {
		r.values[r.next] = v
	}
	r.next = (r.next + 1) % cap(r.values)
	r.count++
}

// LatencyTracker keeps a rolling window of request latencies per route.
type LatencyTracker struct {
	mu     sync.Mutex
	window int
	slow   time.Duration
	routes map[string]*ring
}

// NewLatencyTracker creates a tracker keeping window samples per route.
// Requests slower than slow are logged; 0 disables slow-request logging.
func NewLatencyTracker(window int, slow time.Duration) *LatencyTracker {
	if window < 1 {
		window = 1000
	}
	return &LatencyTracker{
		window: window,
		slow:   slow,
		routes: make(map[string]*ring),
	}
}

// Record adds a latency sample for route.
func (t *LatencyTracker) Record(route string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.routes[route]
	if !ok {
		r = &ring{values: make([]float64, 0, t.window)}
		t.routes[route] = r
	}
	r.add(float64(d) / float64(time.Millisecond))
}

// Stats returns per-route statistics, busiest route first.
func (t *LatencyTracker) Stats() []EndpointStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]EndpointStats, 0, len(t.routes))
	for route, r := range t.routes {
		sorted := make([]float64, len(r.values))
		copy(sorted, r.values)
		sort.Float64s(sorted)

		out = append(out, EndpointStats{
			Route:    route,
			Requests: r.count,
			Samples:  len(sorted),
			MeanMS:   stat.Mean(sorted, nil),
			P50MS:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
			P95MS:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
			P99MS:    stat.Quantile(0.99, stat.Empirical, sorted, nil),
			MaxMS:    sorted[len(sorted)-1],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Requests != out[j].Requests {
			return out[i].Requests > out[j].Requests
		}
		return out[i].Route < out[j].Route
	})
	return out
}

// Middleware records the latency of every request under its route pattern.
func (t *LatencyTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		d := time.Since(start)
		route := r.Method + " " + routePattern(r)
		t.Record(route, d)

		if t.slow > 0 && d > t.slow {
			logging.Ctx(r.Context()).Warn().
				Str("route", route).
				Int("status", rec.status).
				Dur("duration", d).
				Dur("threshold", t.slow).
				Msg("Slow request detected")
		}
	})
}
