// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "sort"

// Matrix is a sparse 2D store keyed by two integer ids.
//
// An absent (row, col) entry reads as 0. The structure does not reject zero
// values; builders are responsible for filtering non-positive scores.
// Rows and columns are independent, so (r,c) and (c,r) are separate entries.
//
// A Matrix is not safe for concurrent writes. After construction it may be
// shared by any number of readers.
type Matrix struct {
	rows map[int]map[int]float64
	nnz  int
}

// NewMatrix creates an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{rows: make(map[int]map[int]float64)}
}

// AddValue stores v at (row, col), replacing any previous value.
func (m *Matrix) AddValue(row, col int, v float64) {
	r, ok := m.rows[row]
	if !ok {
		r = make(map[int]float64)
		m.rows[row] = r
	}
	if _, exists := r[col]; !exists {
		m.nnz++
	}
	r[col] = v
}

// Value returns the value at (row, col), or 0 if absent.
func (m *Matrix) Value(row, col int) float64 {
	return m.rows[row][col]
}

// Has reports whether an entry is stored at (row, col).
func (m *Matrix) Has(row, col int) bool {
	_, ok := m.rows[row][col]
	return ok
}

// Row returns the stored entries of a row. The map must not be modified.
// Returns nil for unknown rows.
func (m *Matrix) Row(row int) map[int]float64 {
	return m.rows[row]
}

// RowIDs returns the ids of rows with at least one entry, ascending.
func (m *Matrix) RowIDs() []int {
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ColIDs returns the column ids stored in a row, ascending.
func (m *Matrix) ColIDs(row int) []int {
	r := m.rows[row]
	ids := make([]int, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// RowMean returns the mean of the stored values of a row, or 0 if empty.
func (m *Matrix) RowMean(row int) float64 {
	r := m.rows[row]
	if len(r) == 0 {
		return 0
	}
	var sum float64
	for _, v := range r {
		sum += v
	}
	return sum / float64(len(r))
}

// Len returns the number of non-empty rows.
func (m *Matrix) Len() int {
	return len(m.rows)
}

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int {
	return m.nnz
}

// Each calls fn for every stored entry, rows and columns in ascending order.
func (m *Matrix) Each(fn func(row, col int, v float64)) {
	for _, row := range m.RowIDs() {
		r := m.rows[row]
		for _, col := range m.ColIDs(row) {
			fn(row, col, r[col])
		}
	}
}

// Equal reports whether two matrices store exactly the same entries.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.nnz != other.nnz || len(m.rows) != len(other.rows) {
		return false
	}
	for row, r := range m.rows {
		o, ok := other.rows[row]
		if !ok || len(o) != len(r) {
			return false
		}
		for col, v := range r {
			if ov, ok := o[col]; !ok || ov != v {
				return false
			}
		}
	}
	return true
}
