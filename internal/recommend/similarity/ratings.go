// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package similarity

import "github.com/tomtom215/cinematch/internal/recommend"

// Confidence scores the association rule a => b: among users who liked a,
// the fraction who also liked b. A user likes an item when their rating is at
// or above the threshold.
type Confidence struct {
	baseMetric
	threshold float64
}

// NewConfidence creates the confidence metric with the given liked threshold.
func NewConfidence(threshold float64) *Confidence {
	return &Confidence{
		baseMetric: baseMetric{name: NameConfidence, symmetry: recommend.Directional},
		threshold:  threshold,
	}
}

// Threshold returns the liked-rating threshold.
func (c *Confidence) Threshold() float64 {
	return c.threshold
}

// Similarity returns confidence(a => b), or 0 if nobody liked a.
func (c *Confidence) Similarity(a, b *recommend.Item) float64 {
	likedA, both := 0, 0
	for user, r := range a.Ratings {
		if r < c.threshold {
			continue
		}
		likedA++
		if rb, ok := b.Ratings[user]; ok && rb >= c.threshold {
			both++
		}
	}
	if likedA == 0 {
		return 0
	}
	return float64(both) / float64(likedA)
}

// Popularity scores a candidate by the number of ratings it has received,
// ignoring the target.
type Popularity struct {
	baseMetric
}

// NewPopularity creates the popularity metric.
func NewPopularity() *Popularity {
	return &Popularity{baseMetric{name: NamePopularity, symmetry: recommend.Directional}}
}

// Similarity returns the rating count of b.
func (p *Popularity) Similarity(_, b *recommend.Item) float64 {
	return float64(b.RatingCount())
}
