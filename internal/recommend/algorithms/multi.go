// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// ErrUnknownAggregation is returned by ParseAggregation for unknown names.
var ErrUnknownAggregation = errors.New("unknown aggregation strategy")

// Aggregation combines the associations from several targets to one candidate.
type Aggregation int

const (
	// AggregateMax takes the strongest association.
	AggregateMax Aggregation = iota
	// AggregateMean averages over all targets, counting missing entries as 0.
	AggregateMean
)

// String returns the strategy name.
func (a Aggregation) String() string {
	switch a {
	case AggregateMax:
		return "max"
	case AggregateMean:
		return "mean"
	default:
		return "unknown"
	}
}

// ParseAggregation resolves "max" or "mean".
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max":
		return AggregateMax, nil
	case "mean":
		return AggregateMean, nil
	default:
		return 0, fmt.Errorf("%w: %q (known: max, mean)", ErrUnknownAggregation, s)
	}
}

// MultiTarget recommends items for a set of liked target items.
type MultiTarget interface {
	// Recommend returns candidates outside targets with a positive aggregate
	// score, ordered by score descending then ID ascending.
	Recommend(targets []*recommend.Item) []*recommend.Item

	// Scored is Recommend with the aggregate scores attached.
	Scored(targets []*recommend.Item) []recommend.ScoredItem

	// Catalog returns the catalog the recommender was built from.
	Catalog() *recommend.Catalog

	// Metric returns the similarity metric.
	Metric() recommend.Metric

	// Aggregation returns the aggregation strategy.
	Aggregation() Aggregation
}

// multiTarget is the shared core of MaxTarget and MeanTarget.
type multiTarget struct {
	baseRecommender
	agg Aggregation
}

// Aggregation returns the aggregation strategy.
func (m *multiTarget) Aggregation() Aggregation {
	return m.agg
}

// Recommend implements MultiTarget.
func (m *multiTarget) Recommend(targets []*recommend.Item) []*recommend.Item {
	return recommend.ItemsOf(m.Scored(targets))
}

// Scored implements MultiTarget.
func (m *multiTarget) Scored(targets []*recommend.Item) []recommend.ScoredItem {
	ids := targetIDs(targets)
	if len(ids) == 0 {
		return emptyScored()
	}

	isTarget := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		isTarget[id] = struct{}{}
	}

	// Only candidates stored in some target row can score above 0.
	candidates := make(map[int]struct{})
	for _, id := range ids {
		for col := range m.assoc.Row(id) {
			if _, skip := isTarget[col]; !skip {
				candidates[col] = struct{}{}
			}
		}
	}

	out := make([]recommend.ScoredItem, 0, len(candidates))
	for id := range candidates {
		score := m.aggregate(ids, id)
		if score <= 0 {
			continue
		}
		item, ok := m.catalog.Get(id)
		if !ok {
			continue
		}
		out = append(out, recommend.ScoredItem{Item: item, Score: score})
	}

	recommend.SortScored(out)
	return out
}

// aggregate combines assoc(target, candidate) over the sorted target ids.
func (m *multiTarget) aggregate(ids []int, candidate int) float64 {
	switch m.agg {
	case AggregateMean:
		var sum float64
		for _, id := range ids {
			sum += m.assoc.Value(id, candidate)
		}
		return sum / float64(len(ids))
	default:
		var best float64
		for _, id := range ids {
			best = max(best, m.assoc.Value(id, candidate))
		}
		return best
	}
}

// targetIDs returns the distinct ids of targets in ascending order.
func targetIDs(targets []*recommend.Item) []int {
	seen := make(map[int]struct{}, len(targets))
	ids := make([]int, 0, len(targets))
	for _, t := range targets {
		if t == nil {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		ids = append(ids, t.ID)
	}
	sort.Ints(ids)
	return ids
}

// MaxTarget scores a candidate by its strongest association to any target.
type MaxTarget struct {
	multiTarget
}

// NewMaxTarget builds the association matrix for catalog under metric.
func NewMaxTarget(ctx context.Context, catalog *recommend.Catalog, metric recommend.Metric, cfg recommend.BuildConfig) (*MaxTarget, error) {
	base, err := newBaseRecommender(ctx, catalog, metric, cfg)
	if err != nil {
		return nil, err
	}
	return &MaxTarget{multiTarget{baseRecommender: base, agg: AggregateMax}}, nil
}

// MeanTarget scores a candidate by its mean association over all targets.
type MeanTarget struct {
	multiTarget
}

// NewMeanTarget builds the association matrix for catalog under metric.
func NewMeanTarget(ctx context.Context, catalog *recommend.Catalog, metric recommend.Metric, cfg recommend.BuildConfig) (*MeanTarget, error) {
	base, err := newBaseRecommender(ctx, catalog, metric, cfg)
	if err != nil {
		return nil, err
	}
	return &MeanTarget{multiTarget{baseRecommender: base, agg: AggregateMean}}, nil
}

// NewMultiTarget builds a multi-target recommender with the given strategy.
func NewMultiTarget(ctx context.Context, agg Aggregation, catalog *recommend.Catalog, metric recommend.Metric, cfg recommend.BuildConfig) (MultiTarget, error) {
	switch agg {
	case AggregateMax:
		rec, err := NewMaxTarget(ctx, catalog, metric, cfg)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case AggregateMean:
		rec, err := NewMeanTarget(ctx, catalog, metric, cfg)
		if err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAggregation, int(agg))
	}
}
