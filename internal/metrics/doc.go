// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics defines the Prometheus collectors of the API and the engine.

All collectors are registered on the default registry through promauto and are
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8085/metrics

# Available Metrics

Every name carries the cinematch_ prefix.

	api_requests_total                  counter    method, endpoint, status_code
	api_request_duration_seconds        histogram  method, endpoint
	api_active_requests                 gauge
	api_rate_limit_hits_total           counter    limiter (api, evaluations)
	association_build_duration_seconds  histogram  metric
	association_entries                 gauge      metric
	association_build_errors_total      counter    metric
	recommendation_lists_total          counter    kind (similar, personalised), metric
	recommendation_list_length          histogram  kind
	evaluation_duration_seconds         histogram  metric
	evaluation_score                    gauge      metric, measure
	cache_hits_total                    counter    cache_type
	cache_misses_total                  counter    cache_type
	cache_evictions_total               counter    cache_type
	cache_entries                       gauge      cache_type
	build_info                          gauge      version, go_version
	catalog_items                       gauge

# Usage Example

	start := time.Now()
	rec, err := algorithms.NewSingleTarget(ctx, catalog, metric, cfg)
	metrics.RecordAssociationBuild(metric.Name(), time.Since(start), rec.Associations().NNZ(), err)

# Thread Safety

All collectors are safe for concurrent use from multiple goroutines.
*/
package metrics
