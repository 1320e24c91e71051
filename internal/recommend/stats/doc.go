// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package stats provides the statistics helpers used by the evaluators and the
// command line: Pearson correlation over keyed vectors, mean and sample
// standard deviation, and a fixed-range histogram.
//
// All functions are pure and hold no shared state.
package stats
