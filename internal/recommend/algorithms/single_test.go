// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"reflect"
	"testing"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

func newSingle(t *testing.T, catalog *recommend.Catalog, metric recommend.Metric) *SingleTarget {
	t.Helper()
	rec, err := NewSingleTarget(context.Background(), catalog, metric, testBuildConfig(2))
	if err != nil {
		t.Fatalf("NewSingleTarget() error = %v", err)
	}
	return rec
}

func TestSingleTarget_Recommend(t *testing.T) {
	catalog := scenarioCatalog()
	rec := newSingle(t, catalog, similarity.NewGenreOverlap())

	tests := []struct {
		name   string
		target int
		want   []int
	}{
		{"A ranks C above B", 1, []int{3, 2}},
		{"B only shares with A", 2, []int{1}},
		{"C only shares with A", 3, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, _ := catalog.Get(tt.target)
			if got := ids(rec.Recommend(target)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Recommend(%d) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestSingleTarget_TieBreakByID(t *testing.T) {
	catalog := recommend.NewCatalog(
		recommend.NewItem(5, "Five", 2000, []string{"Drama"}, nil, nil),
		recommend.NewItem(9, "Nine", 2000, []string{"Drama"}, nil, nil),
		recommend.NewItem(3, "Three", 2000, []string{"Drama"}, nil, nil),
		recommend.NewItem(7, "Seven", 2000, []string{"Drama"}, nil, nil),
	)
	rec := newSingle(t, catalog, similarity.NewGenreJaccard())

	target, _ := catalog.Get(5)
	if got, want := ids(rec.Recommend(target)), []int{3, 7, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("Recommend(5) = %v, want %v", got, want)
	}
}

func TestSingleTarget_Properties(t *testing.T) {
	catalog := syntheticCatalog(40)
	rec := newSingle(t, catalog, similarity.NewSentiment(similarity.NewGenreJaccard(), 0.5, 5))

	for _, target := range catalog.Items() {
		scored := rec.Scored(target)
		for i, s := range scored {
			if s.Item.ID == target.ID {
				t.Errorf("Recommend(%d) contains the target", target.ID)
			}
			if s.Score <= 0 {
				t.Errorf("Recommend(%d)[%d] score = %v, want > 0", target.ID, i, s.Score)
			}
			if stored := rec.Associations().Value(target.ID, s.Item.ID); stored != s.Score {
				t.Errorf("Recommend(%d)[%d] score = %v, stored %v", target.ID, i, s.Score, stored)
			}
			if i > 0 && scored[i-1].Score < s.Score {
				t.Errorf("Recommend(%d) not ordered at %d: %v < %v", target.ID, i, scored[i-1].Score, s.Score)
			}
		}
	}
}

func TestSingleTarget_NoCandidates(t *testing.T) {
	catalog := recommend.NewCatalog(
		recommend.NewItem(1, "A", 2000, []string{"Drama"}, nil, nil),
		recommend.NewItem(2, "B", 2000, []string{"Horror"}, nil, nil),
	)
	rec := newSingle(t, catalog, similarity.NewGenreJaccard())

	tests := []struct {
		name   string
		target *recommend.Item
	}{
		{"disjoint", recommend.NewItem(1, "A", 2000, []string{"Drama"}, nil, nil)},
		{"unknown target", recommend.NewItem(42, "X", 2000, []string{"Drama"}, nil, nil)},
		{"nil target", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rec.Recommend(tt.target)
			if got == nil || len(got) != 0 {
				t.Errorf("Recommend() = %v, want empty non-nil slice", got)
			}
		})
	}
}

func TestSingleTarget_Accessors(t *testing.T) {
	catalog := scenarioCatalog()
	metric := similarity.NewGenreOverlap()
	rec := newSingle(t, catalog, metric)

	if rec.Catalog() != catalog {
		t.Error("Catalog() did not return the build catalog")
	}
	if rec.Metric() != recommend.Metric(metric) {
		t.Error("Metric() did not return the build metric")
	}
	if rec.BuiltAt().IsZero() {
		t.Error("BuiltAt() is zero")
	}
	if rec.BuildDuration() < 0 {
		t.Errorf("BuildDuration() = %v, want >= 0", rec.BuildDuration())
	}
}

func TestNewSingleTarget_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := NewSingleTarget(ctx, scenarioCatalog(), similarity.NewGenreOverlap(), testBuildConfig(1))
	if err == nil || rec != nil {
		t.Errorf("NewSingleTarget() = %v, %v; want nil, error", rec, err)
	}
}

func TestTopK(t *testing.T) {
	xs := []int{1, 2, 3}

	tests := []struct {
		name string
		k    int
		want []int
	}{
		{"within", 2, []int{1, 2}},
		{"exact", 3, []int{1, 2, 3}},
		{"clamped", 10, []int{1, 2, 3}},
		{"zero", 0, []int{}},
		{"negative", -1, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopK(xs, tt.k); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopK(%d) = %v, want %v", tt.k, got, tt.want)
			}
		})
	}
}
