// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

// server is the part of *http.Server the service drives.
type server interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTP server under supervision. The listener is
// opened inside Serve so a bind failure is reported to the supervisor and
// retried with backoff.
type HTTPServerService struct {
	server          server
	addr            string
	listen          func(network, address string) (net.Listener, error)
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewHTTPServerService wraps srv, listening on srv.Addr. A non-positive
// shutdownTimeout selects 10s.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewHTTPServerService(srv *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	return newHTTPServerService(srv, srv.Addr, shutdownTimeout, logger)
}

//nolint:gocritic // zerolog.Logger is passed by value
func newHTTPServerService(srv server, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServerService{
		server:          srv,
		addr:            addr,
		listen:          net.Listen,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Serve implements suture.Service. It returns ctx.Err() after a graceful
// shutdown and nil when the server closes on its own.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	ln, err := h.listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("http server listen on %s: %w", h.addr, err)
	}
	h.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	served := make(chan error, 1)
	go func() { served <- h.server.Serve(ln) }()

	select {
	case err := <-served:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// ctx is already cancelled; shutdown gets its own deadline.
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()

	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("HTTP server shutting down")
	if err := h.server.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-served
	return ctx.Err()
}

// String names the service in supervisor events.
func (h *HTTPServerService) String() string {
	return "http-server"
}
