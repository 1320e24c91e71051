// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package services provides suture.Service wrappers for the long-running parts
of the serve command.

  - HTTPServerService binds the server address, serves until the supervisor
    context is cancelled, then shuts down gracefully.
  - WarmupService builds the configured similarity metrics at startup, marks
    the API ready, and optionally rebuilds them on a fixed interval while
    dropping expired cache entries.

Both services return ctx.Err() on shutdown and a wrapped error on failure so
the supervisor restarts them with backoff.

	tree.AddEngineService(services.NewWarmupService(eng, handler, services.WarmupConfig{
	    Metrics:         cfg.Recommend.WarmMetrics,
	    RebuildInterval: cfg.Supervisor.RebuildInterval,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
*/
package services
