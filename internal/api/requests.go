// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/evaluation"
)

// SearchRequest holds the title search query parameters.
type SearchRequest struct {
	Query string `json:"q" validate:"required,max=200"`
	Limit int    `json:"limit" validate:"gte=0,lte=100"`
}

// SimilarRequest holds the single-target list parameters.
type SimilarRequest struct {
	ItemID    int     `json:"item_id" validate:"gt=0"`
	Metric    string  `json:"metric" validate:"omitempty,metric"`
	K         int     `json:"k" validate:"gte=0"`
	Diversity float64 `json:"diversity" validate:"gte=0,lte=1"`
	Calibrate bool    `json:"calibrate"`
}

// RecommendationRequest is the body of POST /api/v1/recommendations.
type RecommendationRequest struct {
	ItemIDs   []int   `json:"item_ids" validate:"required,min=1,max=100,dive,gt=0"`
	Metric    string  `json:"metric" validate:"omitempty,metric"`
	Strategy  string  `json:"strategy" validate:"omitempty,oneof=max mean"`
	K         int     `json:"k" validate:"gte=0"`
	Diversity float64 `json:"diversity" validate:"gte=0,lte=1"`
	Calibrate bool    `json:"calibrate"`
}

// EvaluationRequest is the body of POST /api/v1/evaluations.
type EvaluationRequest struct {
	Metric string `json:"metric" validate:"required,metric"`
	K      int    `json:"k" validate:"gte=0"`
}

// ItemResponse describes one catalog item.
type ItemResponse struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	Genres      []string `json:"genres"`
	MeanRating  float64  `json:"mean_rating"`
	RatingCount int      `json:"rating_count"`
	GenomeTags  int      `json:"genome_tags"`
}

// MetricInfo describes one similarity metric. Resolved is the full name the
// engine builds, which differs for parameterised metrics.
type MetricInfo struct {
	Name     string `json:"name"`
	Resolved string `json:"resolved"`
	Symmetry string `json:"symmetry"`
}

// MetricsResponse lists the metrics the engine accepts.
type MetricsResponse struct {
	Metrics []MetricInfo `json:"metrics"`
	Default string       `json:"default"`
}

// ScoredItemResponse is an item with its association score.
type ScoredItemResponse struct {
	ItemResponse
	Score float64 `json:"score"`
}

// RecommendationResponse is a ranked list and the parameters that produced it.
type RecommendationResponse struct {
	Metric   string               `json:"metric"`
	Strategy string               `json:"strategy,omitempty"`
	K        int                  `json:"k"`
	Targets  []int                `json:"targets"`
	Items    []ScoredItemResponse `json:"items"`
}

// EvaluationResponse wraps an evaluation report.
type EvaluationResponse struct {
	evaluation.Report
	DurationMs int64 `json:"duration_ms"`
}

func newItemResponse(it *recommend.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Year:        it.Year,
		Genres:      it.Genres.Sorted(),
		MeanRating:  it.MeanRating(),
		RatingCount: it.RatingCount(),
		GenomeTags:  len(it.Genome),
	}
}

func newScoredResponses(scored []recommend.ScoredItem) []ScoredItemResponse {
	out := make([]ScoredItemResponse, len(scored))
	for i, s := range scored {
		out[i] = ScoredItemResponse{ItemResponse: newItemResponse(s.Item), Score: s.Score}
	}
	return out
}
