// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains all configuration for building and querying recommenders.
type Config struct {
	// Similarity contains metric parameters.
	Similarity SimilarityConfig `json:"similarity"`

	// Build contains association build parameters.
	Build BuildConfig `json:"build"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains caching parameters for built recommenders.
	Cache CacheConfig `json:"cache"`
}

// SimilarityConfig contains parameters shared by the metric family.
type SimilarityConfig struct {
	// Threshold is the rating at or above which a user is considered to like an item.
	// Used by the confidence metric and by personalised evaluation.
	// Default: 4.
	Threshold float64 `json:"threshold"`

	// MaxRating is the top of the rating scale. Normalizes the sentiment term.
	// Default: 5.
	MaxRating float64 `json:"max_rating"`

	// Alpha weights the inner metric against the sentiment term.
	// Default: 0.5.
	Alpha float64 `json:"alpha"`

	// InnerMetric names the metric wrapped by the sentiment metric.
	// Default: genre_jaccard.
	InnerMetric string `json:"inner_metric"`
}

// BuildConfig contains association build parameters.
type BuildConfig struct {
	// NumWorkers is the number of parallel build tasks.
	// Default: runtime.NumCPU().
	NumWorkers int `json:"num_workers"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the list length used when a request omits k.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK is the largest list length a request may ask for.
	// Default: 100.
	MaxK int `json:"max_k"`
}

// CacheConfig contains parameters for the built recommender cache.
type CacheConfig struct {
	// Size is the maximum number of cached builds.
	// Default: 16.
	Size int `json:"size"`

	// TTL is how long a build stays cached.
	// Default: 1h.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Similarity: SimilarityConfig{
			Threshold:   4,
			MaxRating:   5,
			Alpha:       0.5,
			InnerMetric: "genre_jaccard",
		},
		Build: BuildConfig{
			NumWorkers: runtime.NumCPU(),
		},
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     100,
		},
		Cache: CacheConfig{
			Size: 16,
			TTL:  time.Hour,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !(c.Similarity.MaxRating > 0) {
		return fmt.Errorf("similarity.max_rating must be positive, got %f", c.Similarity.MaxRating)
	}
	if !(c.Similarity.Threshold >= 0 && c.Similarity.Threshold <= c.Similarity.MaxRating) {
		return fmt.Errorf("similarity.threshold must be in [0, %f], got %f", c.Similarity.MaxRating, c.Similarity.Threshold)
	}
	if !(c.Similarity.Alpha >= 0 && c.Similarity.Alpha <= 1) {
		return fmt.Errorf("similarity.alpha must be in [0, 1], got %f", c.Similarity.Alpha)
	}
	if c.Similarity.InnerMetric == "" {
		return fmt.Errorf("similarity.inner_metric must not be empty")
	}

	if c.Build.NumWorkers < 1 {
		return fmt.Errorf("build.num_workers must be positive, got %d", c.Build.NumWorkers)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= default_k (%d), got %d", c.Limits.DefaultK, c.Limits.MaxK)
	}

	if c.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}

	return nil
}
