// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package engine

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

// testCatalog returns:
//
//	1 Toy Story    action|comedy  2 ratings
//	2 Toy Soldiers action         3 ratings
//	3 Heat         drama          1 rating
//	4 Comedy Club  comedy|drama   no ratings
func testCatalog() *recommend.Catalog {
	return recommend.NewCatalog(
		recommend.NewItem(1, "Toy Story", 1995, []string{"Action", "Comedy"},
			map[int]float64{1: 0.9, 2: 0.1}, map[int]float64{10: 5, 11: 4}),
		recommend.NewItem(2, "Toy Soldiers", 1991, []string{"Action"},
			map[int]float64{1: 0.7, 2: 0.4}, map[int]float64{10: 3, 11: 4, 12: 2}),
		recommend.NewItem(3, "Heat", 1995, []string{"Drama"},
			map[int]float64{1: 0.2, 2: 0.8}, map[int]float64{12: 5}),
		recommend.NewItem(4, "Comedy Club", 2004, []string{"Comedy", "Drama"},
			map[int]float64{1: 0.5, 2: 0.6}, nil),
	)
}

func testConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Build.NumWorkers = 2
	cfg.Limits.DefaultK = 10
	cfg.Limits.MaxK = 20
	return cfg
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testCatalog(), testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func ids(items []recommend.ScoredItem) []int {
	out := make([]int, len(items))
	for i, s := range items {
		out[i] = s.Item.ID
	}
	return out
}

func TestNewEngine_Validation(t *testing.T) {
	if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil catalog) error = nil, want error")
	}

	cfg := testConfig()
	cfg.Limits.MaxK = 0
	if _, err := NewEngine(testCatalog(), cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine(invalid config) error = nil, want error")
	}

	e, err := NewEngine(testCatalog(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine(nil config) error = %v", err)
	}
	if e.Config().Limits.DefaultK != recommend.DefaultConfig().Limits.DefaultK {
		t.Error("nil config should select defaults")
	}
}

func TestEngine_SingleCachesBuilds(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.Single(ctx, "genre_jaccard")
	if err != nil {
		t.Fatalf("Single() error = %v", err)
	}
	second, err := e.Single(ctx, " Genre_Jaccard ")
	if err != nil {
		t.Fatalf("Single() error = %v", err)
	}
	if first != second {
		t.Error("Single() built twice for the same canonical metric")
	}

	stats := e.Stats()
	if stats.CachedBuilds != 1 {
		t.Errorf("CachedBuilds = %d, want 1", stats.CachedBuilds)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", stats.CacheHits, stats.CacheMisses)
	}
	if !reflect.DeepEqual(stats.CachedNames, []string{"genre_jaccard"}) {
		t.Errorf("CachedNames = %v, want [genre_jaccard]", stats.CachedNames)
	}
	if stats.Items != 4 || stats.IndexedTitles != 4 {
		t.Errorf("Items/IndexedTitles = %d/%d, want 4/4", stats.Items, stats.IndexedTitles)
	}

	if len(stats.Builds) != 1 {
		t.Fatalf("len(Builds) = %d, want 1", len(stats.Builds))
	}
	b := stats.Builds[0]
	if b.Metric != "genre_jaccard" || b.Entries != 6 {
		t.Errorf("Builds[0] = %+v, want genre_jaccard with 6 entries", b)
	}
	if !b.BuiltAt.Equal(first.BuiltAt()) {
		t.Errorf("Builds[0].BuiltAt = %v, want %v", b.BuiltAt, first.BuiltAt())
	}
}

func TestEngine_UsedBuildsOutliveTTL(t *testing.T) {
	const ttl = 200 * time.Millisecond
	cfg := testConfig()
	cfg.Cache.TTL = ttl
	e, err := NewEngine(testCatalog(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	ctx := context.Background()

	first, err := e.Single(ctx, "genre_jaccard")
	if err != nil {
		t.Fatalf("Single() error = %v", err)
	}
	for range 3 {
		time.Sleep(ttl * 3 / 5)
		rec, err := e.Single(ctx, "genre_jaccard")
		if err != nil {
			t.Fatalf("Single() error = %v", err)
		}
		if rec != first {
			t.Fatal("Single() rebuilt a build that was used within its TTL")
		}
	}
	if misses := e.Stats().CacheMisses; misses != 1 {
		t.Errorf("CacheMisses = %d, want 1", misses)
	}
}

func TestEngine_SingleConcurrentShareBuild(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	const callers = 8
	got := make([]*algorithms.SingleTarget, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := e.Single(ctx, "genre_overlap")
			if err != nil {
				t.Errorf("Single() error = %v", err)
				return
			}
			got[i] = rec
		}()
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if got[i] != got[0] {
			t.Fatalf("caller %d received a different build", i)
		}
	}
}

func TestEngine_SingleErrors(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Single(context.Background(), "euclidean"); !errors.Is(err, similarity.ErrUnknownMetric) {
		t.Errorf("Single(unknown) error = %v, want ErrUnknownMetric", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Single(ctx, "genre_jaccard"); !errors.Is(err, context.Canceled) {
		t.Errorf("Single(cancelled) error = %v, want context.Canceled", err)
	}
	if e.Stats().CachedBuilds != 0 {
		t.Error("cancelled caller should not start a build")
	}
}

func TestEngine_Similar(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		item    int
		k       int
		want    []int
		wantErr error
	}{
		// jaccard from 1: 2 -> 1/2, 4 -> 1/3, 3 -> 0.
		{"default k", 1, 0, []int{2, 4}, nil},
		{"k cuts list", 1, 1, []int{2}, nil},
		{"unknown item", 99, 5, nil, ErrUnknownItem},
		{"negative k", 1, -1, nil, ErrInvalidK},
		{"k above max", 1, 21, nil, ErrInvalidK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Similar(ctx, tt.item, "genre_jaccard", tt.k, RerankOptions{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Similar() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Similar() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Similar() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestEngine_SimilarScores(t *testing.T) {
	e := newTestEngine(t)

	got, err := e.Similar(context.Background(), 1, "genre_jaccard", 10, RerankOptions{})
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}
	if math.Abs(got[0].Score-0.5) > 1e-12 || math.Abs(got[1].Score-1.0/3) > 1e-12 {
		t.Errorf("scores = %v, %v; want 0.5, 1/3", got[0].Score, got[1].Score)
	}
}

func TestEngine_SimilarReranked(t *testing.T) {
	e := newTestEngine(t)

	opts := []RerankOptions{
		{Diversity: 0.5},
		{Calibrate: true},
		{Diversity: 1, Calibrate: true},
	}
	for _, rr := range opts {
		got, err := e.Similar(context.Background(), 1, "genre_jaccard", 1, rr)
		if err != nil {
			t.Fatalf("Similar(%+v) error = %v", rr, err)
		}
		if len(got) != 1 {
			t.Fatalf("Similar(%+v) len = %d, want 1", rr, len(got))
		}
		if id := got[0].Item.ID; id != 2 && id != 4 {
			t.Errorf("Similar(%+v) = %d, want a candidate of item 1", rr, id)
		}
	}
}

func TestEngine_Personalised(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		targets  []int
		strategy string
		want     []int
		wantErr  error
	}{
		// 2: max(1/2, 0) = 1/2; 4: max(1/3, 1/2) = 1/2. Tie broken by id.
		{"max", []int{1, 3}, "max", []int{2, 4}, nil},
		// 2: (1/2 + 0) / 2 = 1/4; 4: (1/3 + 1/2) / 2 = 5/12.
		{"mean", []int{1, 3}, "mean", []int{4, 2}, nil},
		{"duplicate targets", []int{1, 1}, "max", []int{2, 4}, nil},
		{"unknown strategy", []int{1}, "median", nil, algorithms.ErrUnknownAggregation},
		{"no targets", nil, "max", nil, ErrNoTargets},
		{"unknown target", []int{1, 42}, "max", nil, ErrUnknownItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Personalised(ctx, tt.targets, "genre_jaccard", tt.strategy, 10, RerankOptions{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Personalised() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Personalised() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Personalised() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestEngine_Evaluate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	report, err := e.Evaluate(ctx, "genre_jaccard", 2)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if report.Metric != similarity.NameGenreJaccard || report.K != 2 {
		t.Errorf("Evaluate() metric/k = %q/%d, want %q/2", report.Metric, report.K, similarity.NameGenreJaccard)
	}
	// Every item shares a genre with at least one other item.
	if report.Coverage != 1 {
		t.Errorf("Coverage = %v, want 1", report.Coverage)
	}

	first, _ := e.Evaluator(ctx, "genre_jaccard")
	second, _ := e.Evaluator(ctx, "genre_jaccard")
	if first != second {
		t.Error("Evaluator() not cached")
	}

	if _, err := e.Evaluate(ctx, "genre_jaccard", 0); !errors.Is(err, ErrInvalidK) {
		t.Errorf("Evaluate(k=0) error = %v, want ErrInvalidK", err)
	}
}

func TestEngine_PersonalisedEvaluator(t *testing.T) {
	e := newTestEngine(t)

	train := recommend.NewMatrix()
	train.AddValue(10, 1, 5)
	test := recommend.NewMatrix()
	test.AddValue(10, 2, 5)

	ev, err := e.PersonalisedEvaluator(context.Background(), "genre_jaccard", algorithms.AggregateMax, train, test)
	if err != nil {
		t.Fatalf("PersonalisedEvaluator() error = %v", err)
	}
	// User 10 liked 1; top-1 is item 2, which is liked in test.
	precision, recall, _ := ev.PrecisionRecallF1(1)
	if precision != 1 || recall != 1 {
		t.Errorf("precision/recall = %v/%v, want 1/1", precision, recall)
	}

	if _, err := e.PersonalisedEvaluator(context.Background(), "genre_jaccard", algorithms.AggregateMax, nil, test); err == nil {
		t.Error("PersonalisedEvaluator(nil train) error = nil, want error")
	}
}

func TestEngine_WarmAndRebuild(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if err := e.Warm(ctx, []string{"genre_jaccard", "popularity"}); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if got := e.Stats().CachedNames; !reflect.DeepEqual(got, []string{"genre_jaccard", "popularity"}) {
		t.Errorf("CachedNames = %v", got)
	}

	before, _ := e.Single(ctx, "genre_jaccard")
	if err := e.Rebuild(ctx, []string{"genre_jaccard"}); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	after, _ := e.Single(ctx, "genre_jaccard")
	if before == after {
		t.Error("Rebuild() did not replace the cached build")
	}
	if !before.Associations().Equal(after.Associations()) {
		t.Error("Rebuild() changed associations of an unchanged catalog")
	}

	if err := e.Warm(ctx, []string{"bogus"}); !errors.Is(err, similarity.ErrUnknownMetric) {
		t.Errorf("Warm(bogus) error = %v, want ErrUnknownMetric", err)
	}
}

func TestEngine_Search(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		query string
		limit int
		want  []int
	}{
		// Toy Soldiers has more ratings than Toy Story.
		{"toy", 0, []int{2, 1}},
		{"toy", 1, []int{2}},
		{"toy st", 0, []int{1}},
		{"COMEDY", 0, []int{4}},
		{"", 0, []int{}},
		{"missing", 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := e.Search(tt.query, tt.limit)
			gotIDs := make([]int, len(got))
			for i, it := range got {
				gotIDs[i] = it.ID
			}
			if !reflect.DeepEqual(gotIDs, tt.want) {
				t.Errorf("Search(%q, %d) = %v, want %v", tt.query, tt.limit, gotIDs, tt.want)
			}
		})
	}
}

func TestEngine_ResolveK(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		in      int
		want    int
		wantErr bool
	}{
		{0, 10, false},
		{1, 1, false},
		{20, 20, false},
		{21, 0, true},
		{-3, 0, true},
	}
	for _, tt := range tests {
		got, err := e.ResolveK(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveK(%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveK(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
