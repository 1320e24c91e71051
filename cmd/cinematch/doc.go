// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package main is the cinematch command.

cinematch loads a MovieLens-style dataset, builds item-to-item association
matrices for a choice of similarity metrics, and either runs the offline
experiments or serves recommendations over HTTP.

# Commands

	cinematch evaluate       non-personalised metric grid plus sentiment alpha sweep
	cinematch personalised   precision/recall/F1 over a k sweep (needs train/test split)
	cinematch histogram      distribution of association values (or genres per item)
	cinematch correlations   Pearson correlation between the metrics' association values
	cinematch similar ID     top-k items for one target
	cinematch recommend ID.. top-k items for several liked targets
	cinematch serve          HTTP API under the supervisor tree

Experiment commands write CSV to --output, or stdout when it is "-".

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Command flags > Environment variables > Config file > Defaults

Core environment variables:

	# Dataset
	CINEMATCH_MOVIES_FILE=data/movies.csv
	CINEMATCH_GENOME_FILE=data/genome-scores.csv
	CINEMATCH_RATINGS_FILE=data/ratings.csv
	CINEMATCH_TRAIN_FILE=                 # personalised only
	CINEMATCH_TEST_FILE=                  # personalised only

	# Experiments
	EXPERIMENT_METRICS=genre_jaccard,genome_cosine
	EXPERIMENT_K=10
	EXPERIMENT_STRATEGY=both              # max, mean or both

	# Server
	HTTP_PORT=8085
	LOG_LEVEL=info
	LOG_FORMAT=json

# Supervisor Tree

	RootSupervisor ("cinematch")
	├── EngineSupervisor ("engine-layer")
	│   └── Warm-up service (initial builds, periodic rebuild)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

The API reports ready once the warm-up metrics are built.

# Signal Handling

SIGINT and SIGTERM cancel the running command. The server stops accepting
connections and drains in-flight requests within server.shutdown_timeout.

# Example Usage

	export CINEMATCH_MOVIES_FILE=ml/movies.csv
	cinematch evaluate --k 20 -o results.csv
	cinematch similar 1 --metric genome_cosine --k 5
	cinematch serve --port 9000
*/
package main
