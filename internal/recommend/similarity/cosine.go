// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package similarity

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// GenomeCosine scores the cosine of the genome tag relevance vectors.
type GenomeCosine struct {
	baseMetric
}

// NewGenomeCosine creates the genome cosine metric.
func NewGenomeCosine() *GenomeCosine {
	return &GenomeCosine{baseMetric{name: NameGenomeCosine, symmetry: recommend.Symmetric}}
}

// Similarity returns the cosine of a's and b's genome vectors.
func (g *GenomeCosine) Similarity(a, b *recommend.Item) float64 {
	return sparseCosine(a.Genome, b.Genome)
}

// RatingsCosine scores the cosine of the user rating vectors.
type RatingsCosine struct {
	baseMetric
}

// NewRatingsCosine creates the ratings cosine metric.
func NewRatingsCosine() *RatingsCosine {
	return &RatingsCosine{baseMetric{name: NameRatingsCosine, symmetry: recommend.Symmetric}}
}

// Similarity returns the cosine of a's and b's rating vectors.
func (r *RatingsCosine) Similarity(a, b *recommend.Item) float64 {
	return sparseCosine(a.Ratings, b.Ratings)
}

// sparseCosine computes the dot product over shared keys divided by the
// product of each vector's full L2 norm. Returns 0 if either norm is 0.
// Keys are visited in ascending order so results are bit-for-bit repeatable
// and s(a,b) == s(b,a).
func sparseCosine(a, b map[int]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	normA := floats.Norm(sortedValues(a), 2)
	normB := floats.Norm(sortedValues(b), 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	xs, ys := shared(a, b)
	if len(xs) == 0 {
		return 0
	}

	return floats.Dot(xs, ys) / (normA * normB)
}

// shared returns the aligned values of the keys present in both maps,
// in ascending key order.
func shared(a, b map[int]float64) (xs, ys []float64) {
	small := a
	if len(b) < len(a) {
		small = b
	}
	for _, k := range sortedKeys(small) {
		x, okA := a[k]
		y, okB := b[k]
		if okA && okB {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedValues(m map[int]float64) []float64 {
	keys := sortedKeys(m)
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
