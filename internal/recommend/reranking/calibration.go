// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package reranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Calibration attributes.
const (
	AttributeGenre  = "genre"
	AttributeDecade = "decade"
)

// CalibrationConfig weights relevance against attribute calibration.
type CalibrationConfig struct {
	// Lambda is the relevance weight in [0, 1]; 1 ignores calibration.
	Lambda float64

	// AttributeWeights weights AttributeGenre and AttributeDecade in the
	// calibration term. Empty means genre only.
	AttributeWeights map[string]float64
}

// DefaultCalibrationConfig mostly follows relevance, with genre mix
// weighted above era.
func DefaultCalibrationConfig() CalibrationConfig {
	return CalibrationConfig{
		Lambda: 0.7,
		AttributeWeights: map[string]float64{
			AttributeGenre:  1.0,
			AttributeDecade: 0.3,
		},
	}
}

// distribution is a normalized attribute histogram with its keys sorted.
type distribution struct {
	keys   []string
	values map[string]float64
}

// Calibration reorders a list so its genre and decade mix follows the mix of
// the target items it was recommended for (Steck, "Calibrated
// Recommendations", RecSys 2018). Each pick maximises
//
//	lambda*rel(i) + (1-lambda)*(1 - min(KL(p || q_i), 1))
//
// where p is the target mix and q_i the mix of the list with i added.
type Calibration struct {
	lambda  float64
	weights map[string]float64
	attrs   []string
	target  map[string]distribution
}

// NewCalibration creates a calibration reranker whose target distribution is
// taken from targets.
func NewCalibration(cfg CalibrationConfig, targets []*recommend.Item) *Calibration {
	cfg.Lambda = clamp01(cfg.Lambda)
	weights := cfg.AttributeWeights
	if len(weights) == 0 {
		weights = map[string]float64{AttributeGenre: 1.0}
	}

	attrs := make([]string, 0, len(weights))
	for attr := range weights {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	c := &Calibration{lambda: cfg.Lambda, weights: weights, attrs: attrs}
	c.target = c.computeDistribution(targets)
	return c
}

func (c *Calibration) Name() string { return "calibration" }

// Rerank selects up to k items greedily by the combined objective.
// Ties keep input order.
func (c *Calibration) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if len(items) == 0 || k <= 0 {
		return items[:0]
	}
	k = boundK(k, len(items))

	rel := relevance(items)
	list := make([]*recommend.Item, 0, k)
	out := make([]recommend.ScoredItem, 0, k)
	used := make([]bool, len(items))

	for len(out) < k && ctx.Err() == nil {
		pick, best := -1, math.Inf(-1)
		for i, it := range items {
			if used[i] {
				continue
			}
			mix := c.computeDistribution(append(list, it.Item))
			if v := c.lambda*rel[i] + (1-c.lambda)*c.computeCalibrationScore(mix); v > best {
				pick, best = i, v
			}
		}
		if pick < 0 {
			break
		}
		used[pick] = true
		list = append(list, items[pick].Item)
		out = append(out, items[pick])
	}
	return out
}

// computeDistribution computes the attribute distributions of items.
func (c *Calibration) computeDistribution(items []*recommend.Item) map[string]distribution {
	counts := make(map[string]map[string]float64, len(c.attrs))
	for _, attr := range c.attrs {
		counts[attr] = make(map[string]float64)
	}

	for _, it := range items {
		if dist, ok := counts[AttributeGenre]; ok {
			for genre := range it.Genres {
				dist[genre]++
			}
		}
		if dist, ok := counts[AttributeDecade]; ok && it.Year > 0 {
			dist[decadeBucket(it.Year)]++
		}
	}

	out := make(map[string]distribution, len(counts))
	for attr, dist := range counts {
		out[attr] = normalizeDistribution(dist)
	}
	return out
}

// computeCalibrationScore is the weighted mean over attributes of
// 1 - min(KL, 1). Attributes missing on either side are skipped; with none
// left the score is a neutral 0.5.
func (c *Calibration) computeCalibrationScore(dist map[string]distribution) float64 {
	var sum, weights float64

	for _, attr := range c.attrs {
		target := c.target[attr]
		if len(target.keys) == 0 {
			continue
		}
		got := dist[attr]
		if len(got.keys) == 0 {
			continue
		}

		w := c.weights[attr]
		sum += w * (1 - math.Min(klDivergence(target, got), 1))
		weights += w
	}
	if weights == 0 {
		return 0.5
	}
	return sum / weights
}

// klSmoothing stands in for q(x) = 0.
const klSmoothing = 1e-10

// klDivergence returns KL(p || q) in nats.
func klDivergence(p, q distribution) float64 {
	var kl float64
	for _, key := range p.keys {
		pv := p.values[key]
		if pv <= 0 {
			continue
		}
		qv := q.values[key]
		if qv <= 0 {
			qv = klSmoothing
		}
		kl += pv * math.Log(pv/qv)
	}
	return kl
}

// normalizeDistribution scales counts in place to sum to 1. Keys are summed
// in sorted order so results do not depend on map iteration.
func normalizeDistribution(counts map[string]float64) distribution {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var total float64
	for _, k := range keys {
		total += counts[k]
	}
	if total > 0 {
		for _, k := range keys {
			counts[k] /= total
		}
	}
	return distribution{keys: keys, values: counts}
}

// oldestDecade is the first decade with its own bucket. Older films are
// sparse in the catalog and share one.
const oldestDecade = 1950

func decadeBucket(year int) string {
	decade := year / 10 * 10
	if decade < oldestDecade {
		return fmt.Sprintf("pre-%d", oldestDecade)
	}
	return fmt.Sprintf("%ds", decade)
}

var _ Reranker = (*Calibration)(nil)
