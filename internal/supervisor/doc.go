// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor provides process supervision for the serve command using
suture v4.

# Overview

Services are organized into two layers for failure isolation:

	RootSupervisor ("cinematch")
	├── EngineSupervisor ("engine-layer")
	│   └── WarmupService (warm-up, periodic rebuild and cache cleanup)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A warm-up that fails (for example, an unknown metric name in the configuration)
is retried with backoff without restarting the HTTP server, which keeps
answering health probes and reports not ready until a warm-up succeeds.

# Usage

	tree := supervisor.New(logging.NewSlogLogger(), supervisor.TreeConfig{
	    FailureThreshold: cfg.Supervisor.FailureThreshold,
	    FailureBackoff:   cfg.Supervisor.FailureBackoff,
	    ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	tree.AddEngineService(warmup)
	tree.AddAPIService(httpService)

	unstopped, err := tree.Run(ctx)

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds. When
it exceeds FailureThreshold the supervisor waits FailureBackoff before the next
restart. Supervisor events are logged through sutureslog into the zerolog
pipeline via the logging package's slog adapter.

# Service Interface

	type Service interface {
	    Serve(ctx context.Context) error
	}

Returning an error restarts the service; returning after ctx is cancelled
ends it.
*/
package supervisor
