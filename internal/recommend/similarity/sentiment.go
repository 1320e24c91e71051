// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package similarity

import (
	"fmt"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Sentiment blends an inner metric with the candidate's normalized mean rating:
//
//	alpha * inner(a, b) + (1 - alpha) * meanRating(b) / maxRating
//
// The score is 0 when either term is exactly 0. The sentiment term depends on
// b alone, so the metric is directional even when the inner metric is not.
type Sentiment struct {
	baseMetric
	inner     recommend.Metric
	alpha     float64
	maxRating float64
}

// NewSentiment creates the sentiment metric wrapping inner.
func NewSentiment(inner recommend.Metric, alpha, maxRating float64) *Sentiment {
	return &Sentiment{
		baseMetric: baseMetric{
			name:     fmt.Sprintf("%s:%s:%g", NameSentiment, inner.Name(), alpha),
			symmetry: recommend.Directional,
		},
		inner:     inner,
		alpha:     alpha,
		maxRating: maxRating,
	}
}

// Inner returns the wrapped metric.
func (s *Sentiment) Inner() recommend.Metric {
	return s.inner
}

// Alpha returns the inner metric weight.
func (s *Sentiment) Alpha() float64 {
	return s.alpha
}

// Similarity returns the blended score from a to b.
func (s *Sentiment) Similarity(a, b *recommend.Item) float64 {
	if s.maxRating <= 0 {
		return 0
	}
	sim := s.inner.Similarity(a, b)
	sent := b.MeanRating() / s.maxRating
	if sim == 0 || sent == 0 {
		return 0
	}
	return s.alpha*sim + (1-s.alpha)*sent
}
