// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset or
// missing.
var DefaultConfigPaths = []string{
	"cinematch.yaml",
	"cinematch.yml",
	"config.yaml",
	"/etc/cinematch/config.yaml",
}

// ConfigPathEnvVar names the config file to load ahead of DefaultConfigPaths.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig is the lowest configuration layer.
func defaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			MoviesFile:    "data/movies.csv",
			GenomeFile:    "data/genome-scores.csv",
			RatingsFile:   "data/ratings.csv",
			TrainFile:     "",
			TestFile:      "",
			ExcludedGenre: recommend.DefaultExcludedGenre,
		},
		Recommend: RecommendConfig{
			Threshold:   4,
			MaxRating:   5,
			Alpha:       0.5,
			InnerMetric: similarity.NameGenreJaccard,
			NumWorkers:  0, // 0 = use runtime.NumCPU()
			DefaultK:    10,
			MaxK:        100,
			CacheSize:   16,
			CacheTTL:    time.Hour,
			WarmMetrics: []string{similarity.NameGenreJaccard},
		},
		Experiment: ExperimentConfig{
			Metrics:    similarity.Names(),
			K:          10,
			KMin:       5,
			KMax:       50,
			KStep:      5,
			AlphaSteps: 10,
			Strategy:   "mean",
			Output:     "-",
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8085,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      2 * time.Minute, // evaluations over a cold build can be slow
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		API: APIConfig{
			EvaluationsPerMinute: 6,
			EvaluationBurst:      2,
			RequestTimeout:       90 * time.Second,
			SlowRequestThreshold: 2 * time.Second,
			LatencyWindow:        1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
			RebuildInterval:  0,
		},
	}
}

// layer is one configuration source.
type layer struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// LoadWithKoanf merges, lowest priority first, the built-in defaults, the
// first config file found and the mapped environment variables, then
// validates the result.
func LoadWithKoanf() (*Config, error) {
	layers := []layer{{name: "defaults", provider: structs.Provider(defaultConfig(), "koanf")}}
	if path := findConfigFile(); path != "" {
		layers = append(layers, layer{name: "config file " + path, provider: file.Provider(path), parser: yaml.Parser()})
	}
	layers = append(layers, layer{name: "environment", provider: env.Provider("", ".", envTransformFunc)})

	k := koanf.New(".")
	for _, l := range layers {
		if err := k.Load(l.provider, l.parser); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", l.name, err)
		}
	}
	if err := splitListValues(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first existing
// entry of DefaultConfigPaths, else "".
func findConfigFile() string {
	candidates := DefaultConfigPaths
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// listKeys are list-valued settings. Environment variables deliver them as
// comma-separated strings; YAML already yields lists.
var listKeys = []string{
	"recommend.warm_metrics",
	"experiment.metrics",
	"server.cors_origins",
}

func splitListValues(k *koanf.Koanf) error {
	for _, key := range listKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' })
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		if err := k.Set(key, list); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"cinematch_movies_file":    "dataset.movies_file",
	"cinematch_genome_file":    "dataset.genome_file",
	"cinematch_ratings_file":   "dataset.ratings_file",
	"cinematch_train_file":     "dataset.train_file",
	"cinematch_test_file":      "dataset.test_file",
	"cinematch_excluded_genre": "dataset.excluded_genre",

	"cinematch_threshold":    "recommend.threshold",
	"cinematch_max_rating":   "recommend.max_rating",
	"cinematch_alpha":        "recommend.alpha",
	"cinematch_inner_metric": "recommend.inner_metric",
	"cinematch_workers":      "recommend.num_workers",
	"cinematch_default_k":    "recommend.default_k",
	"cinematch_max_k":        "recommend.max_k",
	"cinematch_cache_size":   "recommend.cache_size",
	"cinematch_cache_ttl":    "recommend.cache_ttl",
	"cinematch_warm_metrics": "recommend.warm_metrics",

	"experiment_metrics":     "experiment.metrics",
	"experiment_k":           "experiment.k",
	"experiment_k_min":       "experiment.k_min",
	"experiment_k_max":       "experiment.k_max",
	"experiment_k_step":      "experiment.k_step",
	"experiment_alpha_steps": "experiment.alpha_steps",
	"experiment_strategy":    "experiment.strategy",
	"experiment_output":      "experiment.output",

	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	"api_evaluations_per_minute": "api.evaluations_per_minute",
	"api_evaluation_burst":       "api.evaluation_burst",
	"api_request_timeout":        "api.request_timeout",
	"api_slow_request_threshold": "api.slow_request_threshold",
	"api_latency_window":         "api.latency_window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
	"supervisor_rebuild_interval":  "supervisor.rebuild_interval",
}

// envTransformFunc maps an environment variable to its koanf path, for
// example HTTP_PORT to server.port. Unmapped variables map to "" and are
// ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
