// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config provides layered configuration for Cinematch using Koanf v2.

# Loading Order

	1. Defaults:     defaultConfig(), loaded through the structs provider
	2. Config file:  optional YAML file from CONFIG_PATH or DefaultConfigPaths
	3. Environment:  explicitly mapped variables (HTTP_PORT, LOG_LEVEL, ...)

Later layers override earlier ones. Unmapped environment variables are
ignored. Slice settings accept comma-separated values from the environment:

	CINEMATCH_WARM_METRICS=genre_jaccard,genome_cosine

# Example YAML

	dataset:
	  movies_file: data/movies.csv
	  genome_file: data/genome-scores.csv
	  ratings_file: data/ratings.csv
	  train_file: data/train.csv
	  test_file: data/test.csv
	recommend:
	  threshold: 4
	  num_workers: 8
	  warm_metrics: [genre_jaccard]
	server:
	  port: 8085

# Validation

LoadWithKoanf validates the merged configuration and reports the first invalid
field as "section.field must be ...".
*/
package config
