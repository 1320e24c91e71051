// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// ErrInvalidArgument is returned when inputs violate a function's contract.
var ErrInvalidArgument = errors.New("invalid argument")

// Pearson returns the correlation coefficient between the values of x and y
// paired by key.
//
// Both maps must hold at least two entries and the same key set. The result is
// 0 when either side has no variance.
func Pearson(x, y map[int]float64) (float64, error) {
	if len(x) < 2 || len(x) != len(y) {
		return 0, fmt.Errorf("%w: pearson needs two equal-size vectors of at least 2 entries, got %d and %d",
			ErrInvalidArgument, len(x), len(y))
	}

	keys := make([]int, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	xs := make([]float64, len(keys))
	ys := make([]float64, len(keys))
	for i, k := range keys {
		v, ok := y[k]
		if !ok {
			return 0, fmt.Errorf("%w: pearson key %d missing from second vector", ErrInvalidArgument, k)
		}
		xs[i] = x[k]
		ys[i] = v
	}

	return PearsonSlices(xs, ys)
}

// PearsonSlices returns the correlation coefficient between two equal-length
// slices of at least two values. The result is 0 when either side is constant.
func PearsonSlices(xs, ys []float64) (float64, error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, fmt.Errorf("%w: pearson needs two equal-length slices of at least 2 values, got %d and %d",
			ErrInvalidArgument, len(xs), len(ys))
	}
	if constant(xs) || constant(ys) {
		return 0, nil
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, nil
	}
	return r, nil
}

// MatrixCorrelation returns the Pearson correlation between m1 and m2 over
// every (row, col) pair drawn from ids, absent entries reading as 0. With
// excludeDiagonal the pairs row == col are skipped. The result is 0 when fewer
// than two pairs remain or either side is constant.
//
// Both value vectors are materialised, so memory grows with len(ids)^2.
func MatrixCorrelation(m1, m2 *recommend.Matrix, ids []int, excludeDiagonal bool) float64 {
	n := len(ids) * len(ids)
	if excludeDiagonal {
		n -= len(ids)
	}
	if n < 2 {
		return 0
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for _, row := range ids {
		for _, col := range ids {
			if excludeDiagonal && row == col {
				continue
			}
			xs = append(xs, m1.Value(row, col))
			ys = append(ys, m2.Value(row, col))
		}
	}

	r, err := PearsonSlices(xs, ys)
	if err != nil {
		return 0
	}
	return r
}

// MeanStdev returns the mean and sample standard deviation of xs.
// The mean is 0 for empty input and the deviation is 0 for fewer than two
// values.
func MeanStdev(xs []float64) (mean, stdev float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}
