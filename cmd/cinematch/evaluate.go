// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend/evaluation"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

var evaluateHeader = []string{
	"k", "label", "relevance", "coverage", "rec. coverage",
	"item space coverage", "rec. popularity", "rec. similarity",
}

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		k          int
		metrics    []string
		alphaSteps int
		noSweep    bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate single-target recommenders for each metric",
		Long: `Build a single-target recommender for every configured metric and print
relevance, coverage, popularity and genome similarity at k as CSV.

A sentiment alpha sweep over recommend.inner_metric follows unless --no-sweep
is set.

Examples:
  cinematch evaluate
  cinematch evaluate --metrics genre_jaccard,genome_cosine --k 20 --no-sweep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			err := a.applyOverrides(func(cfg *config.Config) {
				if f.Changed("k") {
					cfg.Experiment.K = k
				}
				if f.Changed("metrics") {
					cfg.Experiment.Metrics = metrics
				}
				if f.Changed("alpha-steps") {
					cfg.Experiment.AlphaSteps = alphaSteps
				}
				if f.Changed("output") {
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
			return runEvaluate(cmd.Context(), eng, a.cfg, !noSweep, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "recommendation list length (default experiment.k)")
	cmd.Flags().StringSliceVarP(&metrics, "metrics", "m", nil, "metrics to evaluate (default experiment.metrics)")
	cmd.Flags().IntVar(&alphaSteps, "alpha-steps", 0, "sentiment alpha sweep steps (default experiment.alpha_steps)")
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "skip the sentiment alpha sweep")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV output path, - for stdout (default experiment.output)")

	return cmd
}

// runEvaluate writes one report row per metric, then one per sweep alpha.
func runEvaluate(ctx context.Context, eng *engine.Engine, cfg *config.Config, sweep bool, stdout io.Writer) (err error) {
	exp := cfg.Experiment
	names := slices.Clone(exp.Metrics)
	if sweep {
		names = append(names, sentimentSweep(cfg.Recommend.InnerMetric, exp.AlphaSteps)...)
	}

	out, err := openCSV(exp.Output, stdout, evaluateHeader)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, name := range names {
		start := time.Now()
		report, err := eng.Evaluate(ctx, name, exp.K)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", name, err)
		}
		if err := out.Write(evaluateRow(report)); err != nil {
			return err
		}
		logging.Info().
			Str("metric", report.Metric).
			Int("k", report.K).
			Dur("duration", time.Since(start)).
			Msg("Evaluation complete")
	}
	return nil
}

// sentimentSweep names the sentiment metric over inner for alpha in
// 0, 1/steps, ..., 1.
func sentimentSweep(inner string, steps int) []string {
	names := make([]string, 0, steps+1)
	for i := range steps + 1 {
		alpha := float64(i) / float64(steps)
		names = append(names, fmt.Sprintf("%s:%s:%g", similarity.NameSentiment, inner, alpha))
	}
	return names
}

func evaluateRow(r evaluation.Report) []string {
	return []string{
		strconv.Itoa(r.K),
		r.Metric,
		formatFloat(r.Relevance),
		formatFloat(r.Coverage),
		formatFloat(r.RecommendationCoverage),
		formatFloat(r.ItemSpaceCoverage),
		formatFloat(r.Popularity),
		formatFloat(r.Similarity),
	}
}
