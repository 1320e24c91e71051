// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation checks API request structs with go-playground/validator.
//
// Fields are reported by their JSON names. The custom "metric" tag accepts
// any similarity metric name the engine can resolve:
//
//	type similarRequest struct {
//	    Metric string `json:"metric" validate:"omitempty,metric"`
//	    K      int    `json:"k" validate:"gte=0"`
//	}
//
//	if errs := validation.Check(&req); len(errs) > 0 {
//	    rw.ValidationError(errs.Error(), map[string]any{"fields": errs})
//	}
package validation
