// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

// defaultSearchLimit caps title search results when no limit is given.
const defaultSearchLimit = 20

// SimilarityMetrics lists the metrics the engine understands with their
// symmetry, sentiment resolved with the configured inner metric and alpha.
func (h *Handler) SimilarityMetrics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	names := append(similarity.Names(), similarity.NameSentiment)
	resp := MetricsResponse{Metrics: make([]MetricInfo, 0, len(names)), Default: h.defaultMetric}
	for _, name := range names {
		m, err := h.engine.Metric(name)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Str("metric", name).Msg("Metric failed to resolve")
			rw.InternalError("metric configuration is invalid")
			return
		}
		resp.Metrics = append(resp.Metrics, MetricInfo{
			Name:     name,
			Resolved: m.Name(),
			Symmetry: m.Symmetry().String(),
		})
	}
	rw.Success(resp)
}

// SearchItems finds items by title prefix words, most-rated first.
func (h *Handler) SearchItems(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, err := intParam(r, "limit", defaultSearchLimit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := SearchRequest{Query: r.URL.Query().Get("q"), Limit: limit}
	if !validateRequest(rw, &req) {
		return
	}

	found := h.engine.Search(req.Query, req.Limit)
	out := make([]ItemResponse, len(found))
	for i, it := range found {
		out[i] = newItemResponse(it)
	}
	rw.List(out, len(out))
}

// GetItem returns one catalog item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := itemIDParam(rw, r)
	if !ok {
		return
	}
	it, err := h.engine.Item(id)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	rw.Success(newItemResponse(it))
}

// SimilarItems returns the single-target list for an item.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := itemIDParam(rw, r)
	if !ok {
		return
	}
	k, err := intParam(r, "k", 0)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	diversity, err := floatParam(r, "diversity", 0)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	calibrate, err := boolParam(r, "calibrate")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	req := SimilarRequest{
		ItemID:    id,
		Metric:    r.URL.Query().Get("metric"),
		K:         k,
		Diversity: diversity,
		Calibrate: calibrate,
	}
	if !validateRequest(rw, &req) {
		return
	}

	k, err = h.engine.ResolveK(req.K)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	metric := h.metricOrDefault(req.Metric)
	scored, err := h.engine.Similar(ctx, req.ItemID, metric, k,
		engine.RerankOptions{Diversity: req.Diversity, Calibrate: req.Calibrate})
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}

	items := newScoredResponses(scored)
	rw.List(RecommendationResponse{
		Metric:  canonicalMetric(h.engine, metric),
		K:       k,
		Targets: []int{req.ItemID},
		Items:   items,
	}, len(items))
}

// Recommendations returns a multi-target list for a set of liked items.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &req) {
		return
	}
	if req.Strategy == "" {
		req.Strategy = defaultStrategy
	}

	k, err := h.engine.ResolveK(req.K)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	metric := h.metricOrDefault(req.Metric)
	scored, err := h.engine.Personalised(ctx, req.ItemIDs, metric, req.Strategy, k,
		engine.RerankOptions{Diversity: req.Diversity, Calibrate: req.Calibrate})
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}

	items := newScoredResponses(scored)
	rw.List(RecommendationResponse{
		Metric:   canonicalMetric(h.engine, metric),
		Strategy: req.Strategy,
		K:        k,
		Targets:  req.ItemIDs,
		Items:    items,
	}, len(items))
}

// Evaluations computes the non-personalised report for a metric.
func (h *Handler) Evaluations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req EvaluationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	k, err := h.engine.ResolveK(req.K)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	start := time.Now()
	report, err := h.engine.Evaluate(ctx, req.Metric, k)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("metric", report.Metric).
		Int("k", k).
		Dur("duration", time.Since(start)).
		Msg("Evaluation served")

	rw.Success(EvaluationResponse{Report: report, DurationMs: time.Since(start).Milliseconds()})
}

// itemIDParam reads the {itemID} path parameter, writing 400 when it is not
// a positive integer.
func itemIDParam(rw *ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "itemID")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		rw.BadRequest("itemID must be a positive integer")
		return 0, false
	}
	return id, true
}

// canonicalMetric returns the normalized name of a metric the engine has
// already accepted.
func canonicalMetric(eng *engine.Engine, name string) string {
	if m, err := eng.Metric(name); err == nil {
		return m.Name()
	}
	return name
}
