// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateExperiment(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSupervisor(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDataset() error {
	if c.Dataset.MoviesFile == "" {
		return fmt.Errorf("dataset.movies_file must not be empty")
	}
	if (c.Dataset.TrainFile == "") != (c.Dataset.TestFile == "") {
		return fmt.Errorf("dataset.train_file and dataset.test_file must be set together")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if !(r.MaxRating > 0) {
		return fmt.Errorf("recommend.max_rating must be positive, got %g", r.MaxRating)
	}
	if !(r.Threshold >= 0 && r.Threshold <= r.MaxRating) {
		return fmt.Errorf("recommend.threshold must be in [0, %g], got %g", r.MaxRating, r.Threshold)
	}
	if !(r.Alpha >= 0 && r.Alpha <= 1) {
		return fmt.Errorf("recommend.alpha must be in [0, 1], got %g", r.Alpha)
	}
	if r.NumWorkers < 0 {
		return fmt.Errorf("recommend.num_workers must be >= 0, got %d", r.NumWorkers)
	}
	if r.DefaultK < 1 {
		return fmt.Errorf("recommend.default_k must be positive, got %d", r.DefaultK)
	}
	if r.MaxK < r.DefaultK {
		return fmt.Errorf("recommend.max_k must be >= recommend.default_k (%d), got %d", r.DefaultK, r.MaxK)
	}
	if r.CacheSize < 1 {
		return fmt.Errorf("recommend.cache_size must be positive, got %d", r.CacheSize)
	}
	if r.CacheTTL <= 0 {
		return fmt.Errorf("recommend.cache_ttl must be positive, got %v", r.CacheTTL)
	}

	opts := similarity.Options{Threshold: r.Threshold, MaxRating: r.MaxRating, Alpha: r.Alpha, Inner: r.InnerMetric}
	if _, err := similarity.Parse(r.InnerMetric, opts); err != nil {
		return fmt.Errorf("recommend.inner_metric must name a metric: %w", err)
	}
	for _, name := range r.WarmMetrics {
		if _, err := similarity.Parse(name, opts); err != nil {
			return fmt.Errorf("recommend.warm_metrics must name metrics: %w", err)
		}
	}
	return nil
}

func (c *Config) validateExperiment() error {
	e := c.Experiment
	if len(e.Metrics) == 0 {
		return fmt.Errorf("experiment.metrics must not be empty")
	}
	if e.K < 1 {
		return fmt.Errorf("experiment.k must be positive, got %d", e.K)
	}
	if e.KMin < 1 || e.KMax < e.KMin {
		return fmt.Errorf("experiment.k_min must be positive and <= experiment.k_max, got %d..%d", e.KMin, e.KMax)
	}
	if e.KStep < 1 {
		return fmt.Errorf("experiment.k_step must be positive, got %d", e.KStep)
	}
	if e.AlphaSteps < 1 {
		return fmt.Errorf("experiment.alpha_steps must be positive, got %d", e.AlphaSteps)
	}
	if _, err := ParseStrategies(e.Strategy); err != nil {
		return fmt.Errorf("experiment.strategy must be max, mean or both: %w", err)
	}
	if e.Output == "" {
		return fmt.Errorf("experiment.output must not be empty (use - for stdout)")
	}
	return nil
}

func (c *Config) validateServer() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port)
	}
	if s.ReadTimeout <= 0 || s.WriteTimeout <= 0 || s.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("server.rate_limit_requests must be positive, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %v", s.RateLimitWindow)
		}
	}
	if c.API.EvaluationsPerMinute < 1 {
		return fmt.Errorf("api.evaluations_per_minute must be positive, got %d", c.API.EvaluationsPerMinute)
	}
	if c.API.EvaluationBurst < 1 {
		return fmt.Errorf("api.evaluation_burst must be positive, got %d", c.API.EvaluationBurst)
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("api.request_timeout must be positive, got %v", c.API.RequestTimeout)
	}
	if c.API.SlowRequestThreshold < 0 {
		return fmt.Errorf("api.slow_request_threshold must not be negative, got %v", c.API.SlowRequestThreshold)
	}
	if c.API.LatencyWindow < 1 {
		return fmt.Errorf("api.latency_window must be positive, got %d", c.API.LatencyWindow)
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	s := c.Supervisor
	if s.FailureThreshold <= 0 {
		return fmt.Errorf("supervisor.failure_threshold must be positive, got %g", s.FailureThreshold)
	}
	if s.FailureBackoff <= 0 {
		return fmt.Errorf("supervisor.failure_backoff must be positive, got %v", s.FailureBackoff)
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("supervisor.shutdown_timeout must be positive, got %v", s.ShutdownTimeout)
	}
	if s.RebuildInterval < 0 {
		return fmt.Errorf("supervisor.rebuild_interval must be >= 0, got %v", s.RebuildInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// ParseStrategies resolves an experiment strategy setting: "max", "mean" or
// "both" (max then mean).
func ParseStrategies(s string) ([]algorithms.Aggregation, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return []algorithms.Aggregation{algorithms.AggregateMax, algorithms.AggregateMean}, nil
	}
	agg, err := algorithms.ParseAggregation(s)
	if err != nil {
		return nil, err
	}
	return []algorithms.Aggregation{agg}, nil
}
