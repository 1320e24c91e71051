// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package stats

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Histogram counts values into equal-width bins over [min, max].
// Values outside the range are tallied as underflow or overflow and excluded
// from the bins. Not safe for concurrent writers.
type Histogram struct {
	min, max  float64
	width     float64
	counts    []int
	n         int
	underflow int
	overflow  int
}

// NewHistogram creates a histogram with bins equal-width bins over [min, max].
func NewHistogram(minValue, maxValue float64, bins int) (*Histogram, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("%w: histogram bins must be positive, got %d", ErrInvalidArgument, bins)
	}
	if !(maxValue > minValue) {
		return nil, fmt.Errorf("%w: histogram max must exceed min, got [%g, %g]", ErrInvalidArgument, minValue, maxValue)
	}
	return &Histogram{
		min:    minValue,
		max:    maxValue,
		width:  (maxValue - minValue) / float64(bins),
		counts: make([]int, bins),
	}, nil
}

// Add records v.
func (h *Histogram) Add(v float64) {
	switch {
	case v < h.min:
		h.underflow++
	case v > h.max:
		h.overflow++
	default:
		h.counts[h.binIndex(v)]++
		h.n++
	}
}

// AddMatrix records every stored value of m.
func (h *Histogram) AddMatrix(m *recommend.Matrix) {
	m.Each(func(_, _ int, v float64) {
		h.Add(v)
	})
}

// AddPairs records m's value for every pair of distinct ids, zeros included.
func (h *Histogram) AddPairs(m *recommend.Matrix, ids []int) {
	for _, row := range ids {
		for _, col := range ids {
			if row != col {
				h.Add(m.Value(row, col))
			}
		}
	}
}

// binIndex returns the first bin whose upper edge is >= v.
func (h *Histogram) binIndex(v float64) int {
	for i := range h.counts {
		if v <= h.min+float64(i+1)*h.width {
			return i
		}
	}
	// v == max can miss the last edge by rounding.
	return len(h.counts) - 1
}

// Min returns the lower bound of the binned range.
func (h *Histogram) Min() float64 { return h.min }

// Max returns the upper bound of the binned range.
func (h *Histogram) Max() float64 { return h.max }

// Bins returns the number of bins.
func (h *Histogram) Bins() int { return len(h.counts) }

// N returns the number of in-range values recorded.
func (h *Histogram) N() int { return h.n }

// Underflow returns the number of values below min.
func (h *Histogram) Underflow() int { return h.underflow }

// Overflow returns the number of values above max.
func (h *Histogram) Overflow() int { return h.overflow }

// Counts returns a copy of the per-bin counts.
func (h *Histogram) Counts() []int {
	out := make([]int, len(h.counts))
	copy(out, h.counts)
	return out
}

// Centres returns the centre of each bin.
func (h *Histogram) Centres() []float64 {
	out := make([]float64, len(h.counts))
	for i := range out {
		out[i] = h.min + (float64(i)+0.5)*h.width
	}
	return out
}

// MeanStdev returns the mean and sample standard deviation of the bin centres
// weighted by their counts. Underflow and overflow are excluded.
func (h *Histogram) MeanStdev() (mean, stdev float64) {
	if h.n == 0 {
		return 0, 0
	}
	centres := h.Centres()
	weights := make([]float64, len(h.counts))
	for i, c := range h.counts {
		weights[i] = float64(c)
	}
	if h.n == 1 {
		return stat.Mean(centres, weights), 0
	}
	return stat.MeanStdDev(centres, weights)
}

// String renders a short summary.
func (h *Histogram) String() string {
	mean, stdev := h.MeanStdev()
	var sb strings.Builder
	fmt.Fprintf(&sb, "min: %g, max: %g, #bins: %d\n", h.min, h.max, len(h.counts))
	fmt.Fprintf(&sb, "#values: %d, #underflow: %d, #overflow: %d\n", h.n, h.underflow, h.overflow)
	fmt.Fprintf(&sb, "mean: %g, std. dev.: %g\n", mean, stdev)
	return sb.String()
}
