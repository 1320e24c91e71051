// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package similarity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Metric names accepted by Parse.
const (
	NameGenreOverlap  = "genre_overlap"
	NameGenreJaccard  = "genre_jaccard"
	NameGenomeCosine  = "genome_cosine"
	NameRatingsCosine = "ratings_cosine"
	NameConfidence    = "confidence"
	NamePopularity    = "popularity"
	NameSentiment     = "sentiment"
)

// ErrUnknownMetric is returned when a metric name cannot be resolved.
var ErrUnknownMetric = errors.New("unknown similarity metric")

// baseMetric carries the identity shared by every metric.
type baseMetric struct {
	name     string
	symmetry recommend.Symmetry
}

// Name returns the metric identifier.
func (b baseMetric) Name() string {
	return b.name
}

// Symmetry reports whether the metric is symmetric.
func (b baseMetric) Symmetry() recommend.Symmetry {
	return b.symmetry
}

// Options holds the parameters used when resolving metrics by name.
type Options struct {
	// Threshold is the liked-rating threshold for the confidence metric.
	Threshold float64

	// MaxRating normalizes the sentiment term.
	MaxRating float64

	// Alpha weights the inner metric of the sentiment metric.
	Alpha float64

	// Inner names the metric wrapped by the sentiment metric.
	Inner string
}

// OptionsFrom builds Options from the similarity configuration.
func OptionsFrom(cfg recommend.SimilarityConfig) Options {
	return Options{
		Threshold: cfg.Threshold,
		MaxRating: cfg.MaxRating,
		Alpha:     cfg.Alpha,
		Inner:     cfg.InnerMetric,
	}
}

// Names returns the base metric names in a stable order.
func Names() []string {
	return []string{
		NamePopularity,
		NameGenreOverlap,
		NameGenreJaccard,
		NameGenomeCosine,
		NameRatingsCosine,
		NameConfidence,
	}
}

// Parse resolves a metric by name.
//
// Besides the plain names, the sentiment metric accepts inline parameters in
// the form "sentiment:<inner>:<alpha>", e.g. "sentiment:genre_overlap:0.3".
// Missing inline parameters fall back to opts.
func Parse(name string, opts Options) (recommend.Metric, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case NameGenreOverlap:
		return NewGenreOverlap(), nil
	case NameGenreJaccard:
		return NewGenreJaccard(), nil
	case NameGenomeCosine:
		return NewGenomeCosine(), nil
	case NameRatingsCosine:
		return NewRatingsCosine(), nil
	case NameConfidence:
		return NewConfidence(opts.Threshold), nil
	case NamePopularity:
		return NewPopularity(), nil
	}

	if name == NameSentiment || strings.HasPrefix(name, NameSentiment+":") {
		return parseSentiment(name, opts)
	}

	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownMetric, name, strings.Join(knownNames(), ", "))
}

// parseSentiment resolves "sentiment[:inner[:alpha]]".
func parseSentiment(name string, opts Options) (recommend.Metric, error) {
	parts := strings.Split(name, ":")
	if len(parts) > 3 {
		return nil, fmt.Errorf("%w: %q has too many parameters", ErrUnknownMetric, name)
	}

	innerName := opts.Inner
	alpha := opts.Alpha
	if len(parts) >= 2 && parts[1] != "" {
		innerName = parts[1]
	}
	if len(parts) == 3 && parts[2] != "" {
		parsed, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || math.IsNaN(parsed) || parsed < 0 || parsed > 1 {
			return nil, fmt.Errorf("%w: %q has invalid alpha %q", ErrUnknownMetric, name, parts[2])
		}
		alpha = parsed
	}

	if strings.HasPrefix(innerName, NameSentiment) {
		return nil, fmt.Errorf("%w: sentiment cannot wrap %q", ErrUnknownMetric, innerName)
	}
	inner, err := Parse(innerName, opts)
	if err != nil {
		return nil, fmt.Errorf("sentiment inner metric: %w", err)
	}

	return NewSentiment(inner, alpha, opts.MaxRating), nil
}

func knownNames() []string {
	names := append(Names(), NameSentiment)
	sort.Strings(names)
	return names
}
