// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
	"github.com/tomtom215/cinematch/internal/recommend/stats"
	"github.com/tomtom215/cinematch/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// decodeJSON reads a size-limited JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// validateRequest validates v and writes a 400 response on failure.
// It returns false when the handler should stop.
func validateRequest(rw *ResponseWriter, v any) bool {
	errs := validation.Check(v)
	if len(errs) == 0 {
		return true
	}
	rw.ValidationError(errs.Error(), map[string]any{"fields": errs})
	return false
}

// intParam parses an integer query parameter, returning def when absent.
func intParam(r *http.Request, key string, def int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// floatParam parses a float query parameter, returning def when absent.
func floatParam(r *http.Request, key string, def float64) (float64, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

// boolParam parses a boolean query parameter, returning false when absent.
func boolParam(r *http.Request, key string) (bool, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return b, nil
}

// requestContext bounds engine work for one request.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}

// metricOrDefault returns name, or the configured default when empty.
func (h *Handler) metricOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return h.defaultMetric
	}
	return name
}

// writeEngineError maps engine errors to HTTP responses.
func writeEngineError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownItem):
		rw.NotFound(err.Error())
	case errors.Is(err, engine.ErrInvalidK),
		errors.Is(err, engine.ErrNoTargets),
		errors.Is(err, similarity.ErrUnknownMetric),
		errors.Is(err, algorithms.ErrUnknownAggregation):
		rw.BadRequest(err.Error())
	case errors.Is(err, stats.ErrInvalidArgument):
		rw.Error(http.StatusUnprocessableEntity, ErrCodeUnprocessable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusServiceUnavailable, ErrCodeTimeout, "Request timed out; the result is still being computed")
	case errors.Is(err, context.Canceled):
		rw.ServiceUnavailable("Request cancelled")
	default:
		logging.Ctx(r.Context()).Error().
			Str("path", sanitizeLogValue(r.URL.Path)).
			Err(err).
			Msg("Request failed")
		rw.InternalError("Internal server error")
	}
}
