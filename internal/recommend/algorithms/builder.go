// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// blocksPerWorker is how many row blocks each worker gets. Early rows own
// more pairs than late ones.
const blocksPerWorker = 4

// association is one directed score produced by a build task.
type association struct {
	row, col int
	score    float64
}

// BuildAssociations computes every positive pairwise score of catalog under
// metric.
//
// Each unordered pair (i, j) with i before j in catalog order is visited once.
// Directional metrics are evaluated in both directions and each direction is
// stored independently; symmetric metrics are evaluated once and mirrored.
// Only scores > 0 are stored and self-pairs are never computed.
//
// Rows are split into contiguous blocks processed in parallel. Each task fills
// its own buffer and buffers are merged in block order after all tasks finish,
// so the result does not depend on the worker count. The only error returned
// is the context's.
func BuildAssociations(ctx context.Context, catalog *recommend.Catalog, metric recommend.Metric, cfg recommend.BuildConfig) (*recommend.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := catalog.Items()
	n := len(items)
	assoc := recommend.NewMatrix()
	if n < 2 {
		return assoc, nil
	}

	workers := cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	symmetric := metric.Symmetry() == recommend.Symmetric

	blocks := partition(n, workers*blocksPerWorker)
	buffers := make([][]association, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for t, blk := range blocks {
		g.Go(func() error {
			var buf []association
			for i := blk[0]; i < blk[1]; i++ {
				if ContextCancelled(gctx) {
					return gctx.Err()
				}
				a := items[i]
				for j := i + 1; j < n; j++ {
					b := items[j]
					if symmetric {
						if s := metric.Similarity(a, b); s > 0 {
							buf = append(buf, association{a.ID, b.ID, s}, association{b.ID, a.ID, s})
						}
						continue
					}
					if s := metric.Similarity(a, b); s > 0 {
						buf = append(buf, association{a.ID, b.ID, s})
					}
					if s := metric.Similarity(b, a); s > 0 {
						buf = append(buf, association{b.ID, a.ID, s})
					}
				}
			}
			buffers[t] = buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, buf := range buffers {
		for _, e := range buf {
			assoc.AddValue(e.row, e.col, e.score)
		}
	}

	return assoc, nil
}

// partition splits [0, n) into at most parts contiguous [start, end) blocks.
func partition(n, parts int) [][2]int {
	if parts > n {
		parts = n
	}
	if parts < 1 {
		parts = 1
	}
	chunkSize := (n + parts - 1) / parts

	blocks := make([][2]int, 0, parts)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		blocks = append(blocks, [2]int{start, end})
	}
	return blocks
}
