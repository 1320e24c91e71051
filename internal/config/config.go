// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Dataset    DatasetConfig    `koanf:"dataset"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Experiment ExperimentConfig `koanf:"experiment"`
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// DatasetConfig locates the input files.
type DatasetConfig struct {
	MoviesFile    string `koanf:"movies_file"`
	GenomeFile    string `koanf:"genome_file"`
	RatingsFile   string `koanf:"ratings_file"`
	TrainFile     string `koanf:"train_file"` // Optional: personalised evaluation only
	TestFile      string `koanf:"test_file"`  // Optional: personalised evaluation only
	ExcludedGenre string `koanf:"excluded_genre"`
}

// RecommendConfig holds metric, build and cache parameters.
type RecommendConfig struct {
	Threshold   float64       `koanf:"threshold"`
	MaxRating   float64       `koanf:"max_rating"`
	Alpha       float64       `koanf:"alpha"`
	InnerMetric string        `koanf:"inner_metric"`
	NumWorkers  int           `koanf:"num_workers"` // 0 = runtime.NumCPU()
	DefaultK    int           `koanf:"default_k"`
	MaxK        int           `koanf:"max_k"`
	CacheSize   int           `koanf:"cache_size"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	WarmMetrics []string      `koanf:"warm_metrics"` // Built at startup by the serve command
}

// ExperimentConfig drives the evaluate and personalised commands.
type ExperimentConfig struct {
	Metrics    []string `koanf:"metrics"`
	K          int      `koanf:"k"`
	KMin       int      `koanf:"k_min"`
	KMax       int      `koanf:"k_max"`
	KStep      int      `koanf:"k_step"`
	AlphaSteps int      `koanf:"alpha_steps"`
	Strategy   string   `koanf:"strategy"` // max, mean or both
	Output     string   `koanf:"output"`   // "-" writes to stdout
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds endpoint-specific limits.
type APIConfig struct {
	// EvaluationsPerMinute bounds POST /api/v1/evaluations across all clients.
	EvaluationsPerMinute int `koanf:"evaluations_per_minute"`
	EvaluationBurst      int `koanf:"evaluation_burst"`

	// RequestTimeout bounds a single recommendation or evaluation request.
	// A build started by a timed-out request keeps running and is cached.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// SlowRequestThreshold logs requests slower than this. 0 disables.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`

	// LatencyWindow is the number of latency samples kept per route.
	LatencyWindow int `koanf:"latency_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SupervisorConfig holds supervisor tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
	RebuildInterval  time.Duration `koanf:"rebuild_interval"` // 0 disables periodic re-warm
}

// RecommendEngineConfig converts the recommend section into the engine configuration.
func (c *Config) RecommendEngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Similarity = recommend.SimilarityConfig{
		Threshold:   c.Recommend.Threshold,
		MaxRating:   c.Recommend.MaxRating,
		Alpha:       c.Recommend.Alpha,
		InnerMetric: c.Recommend.InnerMetric,
	}
	if c.Recommend.NumWorkers > 0 {
		cfg.Build.NumWorkers = c.Recommend.NumWorkers
	}
	cfg.Limits = recommend.LimitsConfig{
		DefaultK: c.Recommend.DefaultK,
		MaxK:     c.Recommend.MaxK,
	}
	cfg.Cache = recommend.CacheConfig{
		Size: c.Recommend.CacheSize,
		TTL:  c.Recommend.CacheTTL,
	}
	return cfg
}
