// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/engine"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/middleware"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

const serverIdleTimeout = 60 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Load the dataset, start the HTTP API and warm the recommend.warm_metrics
builds in the background. /health/ready reports 503 until warm-up completes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			err := a.applyOverrides(func(cfg *config.Config) {
				if f.Changed("port") {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}

			_, eng, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), eng, a.cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (default server.port)")
	return cmd
}

// newHTTPServer wires the API handler, middleware and router for eng.
func newHTTPServer(cfg *config.Config, eng *engine.Engine) (*http.Server, *api.Handler) {
	latency := middleware.NewLatencyTracker(cfg.API.LatencyWindow, cfg.API.SlowRequestThreshold)

	handler := api.NewHandler(eng, api.HandlerConfig{
		Version:              Version,
		RequestTimeout:       cfg.API.RequestTimeout,
		EvaluationsPerMinute: cfg.API.EvaluationsPerMinute,
		EvaluationBurst:      cfg.API.EvaluationBurst,
		Latency:              latency,
	})

	rc := api.RouterConfig{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitReqs,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	}
	if cfg.Server.RateLimitDisabled {
		rc.RateLimitRequests = 0
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, rc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}
	return server, handler
}

// runServe runs the supervisor tree until ctx is cancelled.
func runServe(ctx context.Context, eng *engine.Engine, cfg *config.Config) error {
	metrics.SetAppInfo(Version, runtime.Version())
	server, handler := newHTTPServer(cfg, eng)

	tree := supervisor.New(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})

	tree.AddEngineService(services.NewWarmupService(eng, handler, services.WarmupConfig{
		Metrics:           cfg.Recommend.WarmMetrics,
		RebuildInterval:   cfg.Supervisor.RebuildInterval,
		KeepAliveInterval: cfg.Recommend.CacheTTL / 2,
	}, logging.WithComponent("warmup")))
	logging.Info().Strs("metrics", cfg.Recommend.WarmMetrics).Msg("Warm-up service added")

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	unstopped, err := tree.Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}
	if len(unstopped) > 0 {
		logging.Warn().Strs("services", unstopped).Msg("Services failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
	return nil
}
