// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package similarity implements the item similarity metrics used to build
// association matrices.
//
// Each metric implements recommend.Metric and declares its symmetry:
//
//   - GenreOverlap, GenreJaccard: set similarity over genre tags (symmetric)
//   - GenomeCosine: cosine over genome tag relevance vectors (symmetric)
//   - RatingsCosine: cosine over user rating vectors (symmetric)
//   - Confidence: association-rule confidence of liked items (directional)
//   - Popularity: rating count of the candidate (directional)
//   - Sentiment: inner metric blended with the candidate's mean rating
//     (directional, whatever the inner metric)
//
// Every metric returns 0 when an attribute it needs is missing or when a
// denominator would be zero. No metric returns an error.
//
// Metrics are stateless after construction and safe for concurrent use.
package similarity
