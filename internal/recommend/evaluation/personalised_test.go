// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package evaluation

import (
	"context"
	"testing"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

func personalisedCatalog() *recommend.Catalog {
	return recommend.NewCatalog(
		recommend.NewItem(1, "One", 2000, []string{"Action"}, nil, nil),
		recommend.NewItem(2, "Two", 2000, []string{"Horror"}, nil, nil),
		recommend.NewItem(3, "Three", 2000, []string{"Action"}, nil, nil),
		recommend.NewItem(4, "Four", 2000, []string{"Action", "Horror"}, nil, nil),
		recommend.NewItem(5, "Five", 2000, []string{"Romance"}, nil, nil),
	)
}

func matrixOf(entries map[int]map[int]float64) *recommend.Matrix {
	m := recommend.NewMatrix()
	for row, cols := range entries {
		for col, v := range cols {
			m.AddValue(row, col, v)
		}
	}
	return m
}

func newPersonalised(t *testing.T) *PersonalisedEvaluator {
	t.Helper()
	rec, err := algorithms.NewMaxTarget(context.Background(), personalisedCatalog(), similarity.NewGenreJaccard(), recommend.BuildConfig{NumWorkers: 2})
	if err != nil {
		t.Fatalf("NewMaxTarget() error = %v", err)
	}

	train := matrixOf(map[int]map[int]float64{
		10: {1: 5, 2: 2},
		20: {5: 4},
		30: {2: 1},
		50: {99: 5},
	})
	test := matrixOf(map[int]map[int]float64{
		10: {3: 5, 5: 4, 4: 1},
		40: {1: 5},
	})
	return NewPersonalisedEvaluator(rec, 4, train, test)
}

func TestPersonalisedEvaluator_Recommendations(t *testing.T) {
	p := newPersonalised(t)

	got := p.Recommendations(10)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 4 {
		t.Errorf("Recommendations(10) = %v, want [3 4]", got)
	}
	for _, user := range []int{20, 30, 50} {
		if recs := p.Recommendations(user); len(recs) != 0 {
			t.Errorf("Recommendations(%d) = %v, want empty", user, recs)
		}
	}
	if recs := p.Recommendations(40); recs != nil {
		t.Errorf("Recommendations(40) = %v, want nil", recs)
	}
}

func TestPersonalisedEvaluator_PrecisionRecallF1(t *testing.T) {
	p := newPersonalised(t)

	tests := []struct {
		name      string
		k         int
		precision float64
		recall    float64
		f1        float64
	}{
		// user 10 hits item 3 of liked {3, 5}; user 40 has no list.
		{"k=1", 1, 0.5, 0.25, 1.0 / 3},
		{"k=5 beyond list length", 5, 0.1, 0.25, 1.0 / 7},
		{"k=0", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			precision, recall, f1 := p.PrecisionRecallF1(tt.k)
			if !approxEqual(precision, tt.precision) {
				t.Errorf("precision = %v, want %v", precision, tt.precision)
			}
			if !approxEqual(recall, tt.recall) {
				t.Errorf("recall = %v, want %v", recall, tt.recall)
			}
			if !approxEqual(f1, tt.f1) {
				t.Errorf("f1 = %v, want %v", f1, tt.f1)
			}
		})
	}
}

func TestPersonalisedEvaluator_Coverage(t *testing.T) {
	p := newPersonalised(t)

	if got := p.Coverage(); !approxEqual(got, 0.25) {
		t.Errorf("Coverage() = %v, want 0.25", got)
	}
}

func TestPersonalisedEvaluator_Report(t *testing.T) {
	p := newPersonalised(t)

	r := p.Report(1)
	if r.Strategy != "max" || r.Metric != similarity.NameGenreJaccard {
		t.Errorf("Report() identity = (%q, %q)", r.Strategy, r.Metric)
	}
	if r.Users != 4 || r.TestUsers != 2 {
		t.Errorf("Report() users = %d/%d, want 4/2", r.Users, r.TestUsers)
	}
	if !approxEqual(r.Precision, 0.5) || !approxEqual(r.Coverage, 0.25) {
		t.Errorf("Report() = %+v", r)
	}
}

func TestPersonalisedEvaluator_EmptyMatrices(t *testing.T) {
	rec, err := algorithms.NewMeanTarget(context.Background(), personalisedCatalog(), similarity.NewGenreJaccard(), recommend.BuildConfig{NumWorkers: 1})
	if err != nil {
		t.Fatalf("NewMeanTarget() error = %v", err)
	}
	p := NewPersonalisedEvaluator(rec, 4, recommend.NewMatrix(), recommend.NewMatrix())

	if precision, recall, f1 := p.PrecisionRecallF1(10); precision != 0 || recall != 0 || f1 != 0 {
		t.Errorf("PrecisionRecallF1() = %v, %v, %v; want zeros", precision, recall, f1)
	}
	if p.Coverage() != 0 {
		t.Errorf("Coverage() = %v, want 0", p.Coverage())
	}
}
