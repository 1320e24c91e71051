// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart behaviour. Zero fields take DefaultTreeConfig.
type TreeConfig struct {
	// FailureThreshold is the decayed failure count that triggers backoff.
	FailureThreshold float64

	// FailureDecay is the failure half-life in seconds.
	FailureDecay float64

	// FailureBackoff is the pause once the threshold is exceeded.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long each service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) suture(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// Tree is the serve command's supervisor hierarchy:
//
//	cinematch
//	├── engine-layer  association warm-up and periodic rebuild
//	└── api-layer     HTTP server
//
// Each layer restarts its own services, so a failing rebuild never restarts
// the HTTP server.
type Tree struct {
	root   *suture.Supervisor
	engine *suture.Supervisor
	api    *suture.Supervisor
	config TreeConfig
}

// New builds the tree. Supervisor events are logged through logger.
func New(logger *slog.Logger, config TreeConfig) *Tree {
	config = config.withDefaults()

	// Children added to the root inherit its event hook.
	events := &sutureslog.Handler{Logger: logger}
	t := &Tree{
		root:   suture.New("cinematch", config.suture(events.MustHook())),
		engine: suture.New("engine-layer", config.suture(nil)),
		api:    suture.New("api-layer", config.suture(nil)),
		config: config,
	}
	t.root.Add(t.engine)
	t.root.Add(t.api)
	return t
}

// AddEngineService adds a service to the engine layer.
func (t *Tree) AddEngineService(svc suture.Service) suture.ServiceToken {
	return t.engine.Add(svc)
}

// AddAPIService adds a service to the API layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Run serves the tree until ctx is cancelled. It returns the names of the
// services that missed the shutdown timeout. Cancellation is not an error.
func (t *Tree) Run(ctx context.Context) ([]string, error) {
	err := t.root.Serve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}

	report, rerr := t.root.UnstoppedServiceReport()
	names := make([]string, 0, len(report))
	for _, u := range report {
		names = append(names, u.Name)
	}
	return names, errors.Join(err, rerr)
}
