// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// defaultWarmTimeout bounds one warm-up or rebuild pass.
const defaultWarmTimeout = 30 * time.Minute

// Warmer builds and refreshes cached association stores.
type Warmer interface {
	Warm(ctx context.Context, names []string) error
	Rebuild(ctx context.Context, names []string) error
	Cleanup() int
}

// ReadySetter receives the readiness state.
type ReadySetter interface {
	SetReady(ready bool)
}

// WarmupConfig configures the warm-up service.
type WarmupConfig struct {
	// Metrics are built before the API reports ready.
	Metrics []string

	// RebuildInterval rebuilds Metrics and drops expired cache entries
	// periodically. 0 disables.
	RebuildInterval time.Duration

	// KeepAliveInterval re-warms Metrics when RebuildInterval is 0 so their
	// cache entries do not expire. Set it below the cache TTL. 0 disables.
	KeepAliveInterval time.Duration

	// Timeout bounds one warm-up or rebuild pass. Default: 30m
	Timeout time.Duration
}

// WarmupService builds the configured metrics at startup and keeps them fresh.
type WarmupService struct {
	engine Warmer
	ready  ReadySetter
	config WarmupConfig
	logger zerolog.Logger
	name   string
}

// NewWarmupService creates a warm-up service. ready may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmupService(engine Warmer, ready ReadySetter, cfg WarmupConfig, logger zerolog.Logger) *WarmupService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultWarmTimeout
	}
	return &WarmupService{
		engine: engine,
		ready:  ready,
		config: cfg,
		logger: logger.With().Str("service", "warmup").Logger(),
		name:   "warmup-service",
	}
}

// Serve implements suture.Service. A failed warm-up is returned so the
// supervisor retries it; readiness is only reported after success.
func (s *WarmupService) Serve(ctx context.Context) error {
	s.logger.Info().
		Strs("metrics", s.config.Metrics).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Dur("keep_alive_interval", s.config.KeepAliveInterval).
		Msg("Warm-up service starting")

	start := time.Now()
	if err := s.run(ctx, s.engine.Warm); err != nil {
		return fmt.Errorf("warm-up failed: %w", err)
	}
	s.setReady(true)
	s.logger.Info().Dur("duration", time.Since(start)).Msg("Warm-up complete, API ready")

	interval, tick := s.config.RebuildInterval, s.refresh
	if interval <= 0 {
		interval, tick = s.config.KeepAliveInterval, s.keepAlive
	}
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Warm-up service shutting down")
			return ctx.Err()

		case <-ticker.C:
			tick(ctx)
		}
	}
}

// refresh rebuilds the configured metrics and drops expired entries. Stale
// builds keep serving when a rebuild fails.
func (s *WarmupService) refresh(ctx context.Context) {
	start := time.Now()
	if err := s.run(ctx, s.engine.Rebuild); err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled rebuild failed")
		return
	}
	removed := s.engine.Cleanup()
	s.logger.Info().
		Dur("duration", time.Since(start)).
		Int("expired_removed", removed).
		Msg("Scheduled rebuild complete")
}

// keepAlive touches the configured metrics, building any that were evicted.
func (s *WarmupService) keepAlive(ctx context.Context) {
	if err := s.run(ctx, s.engine.Warm); err != nil {
		s.logger.Warn().Err(err).Msg("Keep-alive warm-up failed")
		return
	}
	if removed := s.engine.Cleanup(); removed > 0 {
		s.logger.Debug().Int("expired_removed", removed).Msg("Expired cache entries removed")
	}
}

func (s *WarmupService) run(ctx context.Context, fn func(context.Context, []string) error) error {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	return fn(runCtx, s.config.Metrics)
}

func (s *WarmupService) setReady(ready bool) {
	if s.ready != nil {
		s.ready.SetReady(ready)
	}
}

// String implements fmt.Stringer for supervisor event logs.
func (s *WarmupService) String() string {
	return s.name
}
