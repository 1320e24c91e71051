// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

var listHeader = []string{"id", "title", "score"}

// listOptions are shared by the similar and recommend commands.
type listOptions struct {
	metric    string
	k         int
	diversity float64
	calibrate bool
	output    string
}

func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.metric, "metric", "m", similarity.NameGenreJaccard, "similarity metric")
	cmd.Flags().IntVar(&o.k, "k", 0, "list length (default recommend.default_k)")
	cmd.Flags().Float64Var(&o.diversity, "diversity", 0, "MMR diversity weight in [0, 1]")
	cmd.Flags().BoolVar(&o.calibrate, "calibrate", false, "calibrate the genre mix to the targets")
	cmd.Flags().StringVarP(&o.output, "output", "o", stdoutPath, "CSV output path, - for stdout")
}

func (o *listOptions) rerank() (engine.RerankOptions, error) {
	if o.diversity < 0 || o.diversity > 1 {
		return engine.RerankOptions{}, fmt.Errorf("--diversity must be in [0, 1], got %g", o.diversity)
	}
	return engine.RerankOptions{Diversity: o.diversity, Calibrate: o.calibrate}, nil
}

func newSimilarCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "similar ITEM_ID",
		Short: "List the items most associated with one item",
		Example: `  cinematch similar 1
  cinematch similar 1 --metric genome_cosine --k 5 --diversity 0.3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseItemIDs(args)
			if err != nil {
				return err
			}
			rr, err := opts.rerank()
			if err != nil {
				return err
			}
			_, eng, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			k, err := eng.ResolveK(opts.k)
			if err != nil {
				return err
			}

			items, err := eng.Similar(cmd.Context(), ids[0], opts.metric, k, rr)
			if err != nil {
				return err
			}
			return writeList(opts.output, cmd.OutOrStdout(), items)
		},
	}
	opts.register(cmd)
	return cmd
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		opts     listOptions
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "recommend ITEM_ID...",
		Short: "Recommend items for a set of liked items",
		Example: `  cinematch recommend 1 260 1196
  cinematch recommend 1 260 --strategy mean --calibrate`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseItemIDs(args)
			if err != nil {
				return err
			}
			rr, err := opts.rerank()
			if err != nil {
				return err
			}
			if _, err := algorithms.ParseAggregation(strategy); err != nil {
				return err
			}
			_, eng, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			k, err := eng.ResolveK(opts.k)
			if err != nil {
				return err
			}

			items, err := eng.Personalised(cmd.Context(), ids, opts.metric, strategy, k, rr)
			if err != nil {
				return err
			}
			return writeList(opts.output, cmd.OutOrStdout(), items)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&strategy, "strategy", "s", algorithms.AggregateMax.String(), "max or mean")
	return cmd
}

func parseItemIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("item id must be a positive integer, got %q", arg)
		}
		ids[i] = id
	}
	return ids, nil
}

func writeList(path string, stdout io.Writer, items []recommend.ScoredItem) (err error) {
	out, err := openCSV(path, stdout, listHeader)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, s := range items {
		if err := out.Write([]string{strconv.Itoa(s.Item.ID), s.Item.Title, formatFloat(s.Score)}); err != nil {
			return err
		}
	}
	return nil
}
