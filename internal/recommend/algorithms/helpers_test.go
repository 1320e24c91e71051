// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"fmt"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// funcMetric adapts a function to recommend.Metric for tests.
type funcMetric struct {
	name     string
	symmetry recommend.Symmetry
	fn       func(a, b *recommend.Item) float64
}

func (f funcMetric) Name() string                 { return f.name }
func (f funcMetric) Symmetry() recommend.Symmetry { return f.symmetry }
func (f funcMetric) Similarity(a, b *recommend.Item) float64 {
	return f.fn(a, b)
}

func testBuildConfig(workers int) recommend.BuildConfig {
	return recommend.BuildConfig{NumWorkers: workers}
}

// scenarioCatalog returns A{comedy,drama}, B{drama,action}, C{comedy}.
func scenarioCatalog() *recommend.Catalog {
	return recommend.NewCatalog(
		recommend.NewItem(1, "A", 2000, []string{"Comedy", "Drama"}, nil, map[int]float64{1: 5, 2: 3}),
		recommend.NewItem(2, "B", 2001, []string{"Drama", "Action"}, nil, map[int]float64{1: 2}),
		recommend.NewItem(3, "C", 2002, []string{"Comedy"}, nil, map[int]float64{2: 4, 3: 2}),
	)
}

// syntheticCatalog returns n items with overlapping genre sets and ratings.
func syntheticCatalog(n int) *recommend.Catalog {
	genres := []string{"action", "comedy", "drama", "horror", "romance", "sci-fi", "thriller"}
	items := make([]*recommend.Item, 0, n)
	for i := 0; i < n; i++ {
		var gs []string
		for g := range genres {
			if (i+1)%(g+2) == 0 {
				gs = append(gs, genres[g])
			}
		}
		ratings := map[int]float64{}
		for u := 1; u <= 10; u++ {
			if (i*u)%3 != 0 {
				ratings[u] = float64((i+u)%5 + 1)
			}
		}
		items = append(items, recommend.NewItem(100+i, fmt.Sprintf("Item %d", i), 1990+i%30, gs, nil, ratings))
	}
	return recommend.NewCatalog(items...)
}

func ids(items []*recommend.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
