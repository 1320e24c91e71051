// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
	"github.com/tomtom215/cinematch/internal/recommend/stats"
)

const defaultHistogramBins = 20

// Genres-per-item histograms use unit bins centred on 1..10.
const (
	genreHistogramMin  = 0.5
	genreHistogramMax  = 10.5
	genreHistogramBins = 10
)

var histogramHeader = []string{"bin_centre", "count"}

// histogramOptions selects what is counted and the bin layout. A nil bound is
// taken from the observed values.
type histogramOptions struct {
	metric       string
	bins         int
	min          *float64
	max          *float64
	includeZeros bool
	genres       bool
}

func newHistogramCmd(a *app) *cobra.Command {
	var (
		opts   histogramOptions
		lo, hi float64
		output string
	)

	cmd := &cobra.Command{
		Use:   "histogram",
		Short: "Print the distribution of association values for a metric",
		Long: `Build the association matrix for --metric and print a CSV histogram of its
stored values. The range defaults to the smallest and largest stored value.
Counts outside --min/--max are reported in the log as underflow and overflow.

--include-zeros counts every pair of distinct items, including pairs with no
stored association. --genres counts the genres of each item instead and
defaults to ten unit bins from 0.5 to 10.5.

Examples:
  cinematch histogram --metric genome_cosine --bins 50
  cinematch histogram --metric genre_jaccard --include-zeros --min 0 --max 1 --bins 40
  cinematch histogram --genres`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			if f.Changed("min") {
				opts.min = &lo
			}
			if f.Changed("max") {
				opts.max = &hi
			}
			if opts.genres {
				opts.genreDefaults(f.Changed("bins"))
			}
			err := a.applyOverrides(func(cfg *config.Config) {
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
			return runHistogram(cmd.Context(), eng, opts, a.cfg.Experiment.Output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.metric, "metric", "m", similarity.NameGenreJaccard, "similarity metric")
	cmd.Flags().IntVarP(&opts.bins, "bins", "b", defaultHistogramBins, "number of bins")
	cmd.Flags().Float64Var(&lo, "min", 0, "lower bound (default smallest value)")
	cmd.Flags().Float64Var(&hi, "max", 0, "upper bound (default largest value)")
	cmd.Flags().BoolVar(&opts.includeZeros, "include-zeros", false, "count every pair of distinct items, zeros included")
	cmd.Flags().BoolVar(&opts.genres, "genres", false, "count genres per item instead of association values")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV output path, - for stdout (default experiment.output)")
	cmd.MarkFlagsMutuallyExclusive("genres", "include-zeros")

	return cmd
}

// genreDefaults fills the genres-per-item layout where no flag was given.
func (o *histogramOptions) genreDefaults(binsSet bool) {
	if o.min == nil {
		lo := genreHistogramMin
		o.min = &lo
	}
	if o.max == nil {
		hi := genreHistogramMax
		o.max = &hi
	}
	if !binsSet {
		o.bins = genreHistogramBins
	}
}

func runHistogram(ctx context.Context, eng *engine.Engine, opts histogramOptions, path string, stdout io.Writer) (err error) {
	var (
		subject string
		values  = recommend.NewMatrix()
		fill    func(h *stats.Histogram)
	)

	switch {
	case opts.genres:
		subject = "genres per item"
		items := eng.Catalog().Items()
		fill = func(h *stats.Histogram) {
			for _, it := range items {
				h.Add(float64(len(it.Genres)))
			}
		}
	default:
		rec, err := eng.Single(ctx, opts.metric)
		if err != nil {
			return err
		}
		subject = rec.Metric().Name()
		values = rec.Associations()
		ids := eng.Catalog().IDs()
		fill = func(h *stats.Histogram) {
			if opts.includeZeros {
				h.AddPairs(values, ids)
				return
			}
			h.AddMatrix(values)
		}
	}

	lo, hi := valueRange(values)
	if opts.includeZeros {
		lo = min(lo, 0)
	}
	if opts.min != nil {
		lo = *opts.min
	}
	if opts.max != nil {
		hi = *opts.max
	}
	h, err := stats.NewHistogram(lo, hi, opts.bins)
	if err != nil {
		return err
	}
	fill(h)

	out, err := openCSV(path, stdout, histogramHeader)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	counts := h.Counts()
	for i, centre := range h.Centres() {
		if err := out.Write([]string{formatFloat(centre), strconv.Itoa(counts[i])}); err != nil {
			return err
		}
	}

	mean, stdev := h.MeanStdev()
	logging.Info().
		Str("subject", subject).
		Float64("min", h.Min()).
		Float64("max", h.Max()).
		Int("bins", h.Bins()).
		Int("values", h.N()).
		Int("underflow", h.Underflow()).
		Int("overflow", h.Overflow()).
		Float64("mean", mean).
		Float64("stdev", stdev).
		Msg("Histogram complete")
	return nil
}

// valueRange returns the smallest and largest stored value, widened to a
// non-empty interval.
func valueRange(m *recommend.Matrix) (lo, hi float64) {
	first := true
	m.Each(func(_, _ int, v float64) {
		if first {
			lo, hi = v, v
			first = false
			return
		}
		lo = min(lo, v)
		hi = max(hi, v)
	})
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}
