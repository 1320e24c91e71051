// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package stats

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/cinematch/internal/recommend"
)

func TestNewHistogram_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		bins     int
	}{
		{"zero bins", 0, 1, 0},
		{"negative bins", 0, 1, -3},
		{"empty range", 1, 1, 4},
		{"inverted range", 2, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHistogram(tt.min, tt.max, tt.bins)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NewHistogram() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestHistogram_Add(t *testing.T) {
	h, err := NewHistogram(0, 10, 5)
	if err != nil {
		t.Fatalf("NewHistogram() error = %v", err)
	}

	for _, v := range []float64{-1, 11, 0, 2, 2.5, 10} {
		h.Add(v)
	}

	if got, want := h.Counts(), []int{2, 1, 0, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %v, want %v", got, want)
	}
	if h.Underflow() != 1 {
		t.Errorf("Underflow() = %d, want 1", h.Underflow())
	}
	if h.Overflow() != 1 {
		t.Errorf("Overflow() = %d, want 1", h.Overflow())
	}
	if h.N() != 4 {
		t.Errorf("N() = %d, want 4", h.N())
	}
	if got, want := h.Centres(), []float64{1, 3, 5, 7, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("Centres() = %v, want %v", got, want)
	}

	// Weighted centres: 1, 1, 3, 9.
	mean, stdev := h.MeanStdev()
	if math.Abs(mean-3.5) > epsilon {
		t.Errorf("MeanStdev() mean = %v, want 3.5", mean)
	}
	if want := math.Sqrt(43.0 / 3); math.Abs(stdev-want) > epsilon {
		t.Errorf("MeanStdev() stdev = %v, want %v", stdev, want)
	}
}

func TestHistogram_MeanStdevSmall(t *testing.T) {
	h, _ := NewHistogram(0, 1, 2)

	if mean, stdev := h.MeanStdev(); mean != 0 || stdev != 0 {
		t.Errorf("empty MeanStdev() = (%v, %v), want (0, 0)", mean, stdev)
	}

	h.Add(0.9)
	if mean, stdev := h.MeanStdev(); math.Abs(mean-0.75) > epsilon || stdev != 0 {
		t.Errorf("single MeanStdev() = (%v, %v), want (0.75, 0)", mean, stdev)
	}
}

func TestHistogram_AddMatrix(t *testing.T) {
	m := recommend.NewMatrix()
	m.AddValue(1, 2, 0.2)
	m.AddValue(2, 1, 0.2)
	m.AddValue(1, 3, 0.9)

	h, _ := NewHistogram(0, 1, 10)
	h.AddMatrix(m)

	if h.N() != 3 {
		t.Errorf("N() = %d, want 3", h.N())
	}
	counts := h.Counts()
	if counts[1] != 2 || counts[8] != 1 {
		t.Errorf("Counts() = %v, want two in bin 1 and one in bin 8", counts)
	}
}

func TestHistogram_AddPairs(t *testing.T) {
	m := recommend.NewMatrix()
	m.AddValue(1, 2, 0.2)
	m.AddValue(1, 1, 0.9)

	h, _ := NewHistogram(0, 1, 10)
	h.AddPairs(m, []int{1, 2, 3})

	if h.N() != 6 {
		t.Errorf("N() = %d, want 6", h.N())
	}
	counts := h.Counts()
	if counts[0] != 5 || counts[1] != 1 || counts[8] != 0 {
		t.Errorf("Counts() = %v, want five zeros in bin 0, one in bin 1 and no diagonal value", counts)
	}
}

func TestHistogram_String(t *testing.T) {
	h, _ := NewHistogram(0, 1, 4)
	h.Add(0.5)
	s := h.String()
	for _, want := range []string{"#bins: 4", "#values: 1", "#underflow: 0"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
