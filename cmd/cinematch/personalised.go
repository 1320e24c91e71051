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
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/dataset"
	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend/evaluation"
)

var errNoSplit = errors.New("personalised evaluation needs dataset.train_file and dataset.test_file")

var personalisedHeader = []string{"strategy", "metric", "k", "precision", "recall", "f1", "coverage"}

func newPersonalisedCmd(a *app) *cobra.Command {
	var (
		metrics  []string
		strategy string
		kMin     int
		kMax     int
		kStep    int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "personalised",
		Short: "Evaluate multi-target recommenders against a train/test split",
		Long: `For each strategy and metric, recommend from every user's liked training
items and score the lists against the liked test items. k is swept from
experiment.k_min to experiment.k_max by experiment.k_step.

Examples:
  cinematch personalised --strategy both
  cinematch personalised --metrics genome_cosine --k-min 1 --k-max 10 --k-step 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			err := a.applyOverrides(func(cfg *config.Config) {
				if f.Changed("metrics") {
					cfg.Experiment.Metrics = metrics
				}
				if f.Changed("strategy") {
					cfg.Experiment.Strategy = strategy
				}
				if f.Changed("k-min") {
					cfg.Experiment.KMin = kMin
				}
				if f.Changed("k-max") {
					cfg.Experiment.KMax = kMax
				}
				if f.Changed("k-step") {
					cfg.Experiment.KStep = kStep
				}
				if f.Changed("output") {
					cfg.Experiment.Output = output
				}
			})
			if err != nil {
				return err
			}

			ds, eng, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			return runPersonalised(cmd.Context(), eng, ds, a.cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringSliceVarP(&metrics, "metrics", "m", nil, "metrics to evaluate (default experiment.metrics)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "max, mean or both (default experiment.strategy)")
	cmd.Flags().IntVar(&kMin, "k-min", 0, "first k (default experiment.k_min)")
	cmd.Flags().IntVar(&kMax, "k-max", 0, "last k (default experiment.k_max)")
	cmd.Flags().IntVar(&kStep, "k-step", 0, "k increment (default experiment.k_step)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV output path, - for stdout (default experiment.output)")

	return cmd
}

// runPersonalised writes one row per strategy, metric and k.
func runPersonalised(ctx context.Context, eng *engine.Engine, ds *dataset.Dataset, cfg *config.Config, stdout io.Writer) (err error) {
	if !ds.HasSplit() {
		return errNoSplit
	}
	exp := cfg.Experiment
	strategies, err := config.ParseStrategies(exp.Strategy)
	if err != nil {
		return err
	}

	out, err := openCSV(exp.Output, stdout, personalisedHeader)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, agg := range strategies {
		for _, name := range exp.Metrics {
			start := time.Now()
			pe, err := eng.PersonalisedEvaluator(ctx, name, agg, ds.Train, ds.Test)
			if err != nil {
				return fmt.Errorf("personalised %s/%s: %w", agg, name, err)
			}
			for k := exp.KMin; k <= exp.KMax; k += exp.KStep {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := out.Write(personalisedRow(pe.Report(k))); err != nil {
					return err
				}
			}
			logging.Info().
				Str("metric", name).
				Str("strategy", agg.String()).
				Int("k_min", exp.KMin).
				Int("k_max", exp.KMax).
				Dur("duration", time.Since(start)).
				Msg("Personalised evaluation complete")
		}
	}
	return nil
}

func personalisedRow(r evaluation.PersonalisedReport) []string {
	return []string{
		r.Strategy,
		r.Metric,
		strconv.Itoa(r.K),
		formatFloat(r.Precision),
		formatFloat(r.Recall),
		formatFloat(r.F1),
		formatFloat(r.Coverage),
	}
}
