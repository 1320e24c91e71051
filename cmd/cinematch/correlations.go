// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
	"github.com/tomtom215/cinematch/internal/recommend/stats"
)

func newCorrelationsCmd(a *app) *cobra.Command {
	var (
		metrics []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "correlations",
		Short: "Correlate the association values of every pair of metrics",
		Long: `Build the association matrix for each metric and print, as a CSV matrix,
the Pearson correlation between every pair of them over all pairs of distinct
items. Missing associations count as 0.

Metrics default to experiment.metrics followed by the configured sentiment
metric.

Examples:
  cinematch correlations
  cinematch correlations --metrics genre_jaccard,genome_cosine,ratings_cosine -o corr.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.applyOverrides(func(cfg *config.Config) {
				if cmd.Flags().Changed("output") {
					cfg.Experiment.Output = output
				}
			})
			if err != nil {
				return err
			}
			_, eng, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			if len(metrics) == 0 {
				metrics = defaultCorrelationMetrics(a.cfg.Experiment.Metrics)
			}
			return runCorrelations(cmd.Context(), eng, metrics, a.cfg.Experiment.Output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVarP(&metrics, "metrics", "m", nil, "metrics to correlate (default experiment.metrics and sentiment)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV output path, - for stdout (default experiment.output)")

	return cmd
}

// defaultCorrelationMetrics appends the sentiment metric unless one is listed.
func defaultCorrelationMetrics(names []string) []string {
	out := slices.Clone(names)
	for _, n := range out {
		if n == similarity.NameSentiment || strings.HasPrefix(n, similarity.NameSentiment+":") {
			return out
		}
	}
	return append(out, similarity.NameSentiment)
}

// runCorrelations writes a header of metric names and one row per metric.
func runCorrelations(ctx context.Context, eng *engine.Engine, names []string, path string, stdout io.Writer) (err error) {
	if len(names) == 0 {
		return errors.New("no metrics to correlate")
	}

	start := time.Now()
	labels := make([]string, len(names))
	matrices := make([]*recommend.Matrix, len(names))
	for i, name := range names {
		rec, err := eng.Single(ctx, name)
		if err != nil {
			return fmt.Errorf("build %s: %w", name, err)
		}
		labels[i] = rec.Metric().Name()
		matrices[i] = rec.Associations()
	}

	corr := correlationMatrix(ctx, matrices, eng.Catalog().IDs())
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := openCSV(path, stdout, append([]string{"metric"}, labels...))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for i, row := range corr {
		record := make([]string, 0, len(row)+1)
		record = append(record, labels[i])
		for _, v := range row {
			record = append(record, formatFloat(v))
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}

	logging.Info().
		Int("metrics", len(names)).
		Int("items", eng.Catalog().Len()).
		Dur("duration", time.Since(start)).
		Msg("Correlations complete")
	return nil
}

// correlationMatrix fills the upper triangle and mirrors it. The diagonal of
// each matrix is excluded from every correlation.
func correlationMatrix(ctx context.Context, matrices []*recommend.Matrix, ids []int) [][]float64 {
	corr := make([][]float64, len(matrices))
	for i := range corr {
		corr[i] = make([]float64, len(matrices))
	}
	for i := range matrices {
		for j := i; j < len(matrices); j++ {
			if ctx.Err() != nil {
				return corr
			}
			v := stats.MatrixCorrelation(matrices[i], matrices[j], ids, true)
			corr[i][j], corr[j][i] = v, v
		}
	}
	return corr
}
