// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package logging provides centralized zerolog-based logging for Cinematch.
//
// A single global logger is configured once at startup and shared by the CLI,
// the HTTP API and the supervisor tree:
//
//   - JSON or console output
//   - component loggers tagged with a "component" field
//   - request and correlation IDs carried in context.Context
//   - an slog.Handler for the supervisor, which only accepts *slog.Logger
//
// Logs go to stderr so command output on stdout stays machine readable.
// Each command sets its name as the "command" field:
//
//	logging.Init(logging.Config{Level: "info", Format: "console", Command: "evaluate"})
//
//	logging.Info().Int("items", catalog.Len()).Msg("Catalog loaded")
//	logging.Ctx(ctx).Warn().Str("metric", name).Msg("Unknown metric")
package logging
