// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinematch"

// Buckets for association builds, which take seconds to minutes on the full
// tag genome.
var buildBuckets = prometheus.ExponentialBuckets(0.1, 2.5, 10)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "api", Name: "requests_total",
		Help: "API requests by route pattern and status.",
	}, []string{"method", "endpoint", "status_code"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "api", Name: "request_duration_seconds",
		Help:    "API request latency by route pattern.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "endpoint"})

	APIActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "api", Name: "active_requests",
		Help: "API requests in flight.",
	})

	APIRateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "api", Name: "rate_limit_hits_total",
		Help: "Requests rejected by a rate limiter.",
	}, []string{"limiter"})

	// Association builds
	AssociationBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "association", Name: "build_duration_seconds",
		Help:    "Pairwise association build time.",
		Buckets: buildBuckets,
	}, []string{"metric"})

	AssociationEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "association", Name: "entries",
		Help: "Stored associations of the last successful build.",
	}, []string{"metric"})

	AssociationBuildErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "association", Name: "build_errors_total",
		Help: "Failed or cancelled association builds.",
	}, []string{"metric"})

	// Recommendation lists
	RecommendationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "recommendation", Name: "lists_total",
		Help: "Recommendation lists served, by kind (similar, personalised).",
	}, []string{"kind", "metric"})

	RecommendationListLength = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "recommendation", Name: "list_length",
		Help:    "Length of served recommendation lists.",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	}, []string{"kind"})

	// Evaluation runs
	EvaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "evaluation", Name: "duration_seconds",
		Help:    "Evaluation run time.",
		Buckets: buildBuckets,
	}, []string{"metric"})

	EvaluationScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "evaluation", Name: "score",
		Help: "Latest evaluation result per metric and measure.",
	}, []string{"metric", "measure"})

	// Recommender cache
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "cache", Name: "hits_total",
		Help: "Cache lookups that found a built recommender.",
	}, []string{"cache_type"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "cache", Name: "misses_total",
		Help: "Cache lookups that triggered a build.",
	}, []string{"cache_type"})

	CacheSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: "cache", Name: "entries",
		Help: "Cached entries.",
	}, []string{"cache_type"})

	CacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "cache", Name: "evictions_total",
		Help: "Entries evicted for capacity or expiry.",
	}, []string{"cache_type"})

	// Process
	AppInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "build_info",
		Help: "Always 1; labelled with the version.",
	}, []string{"version", "go_version"})

	CatalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "catalog_items",
		Help: "Items in the loaded catalog.",
	})
)

// RecordAPIRequest counts a finished request. endpoint is the route
// pattern, never the raw path.
func RecordAPIRequest(method, endpoint, statusCode string, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up on start and down on end.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

func RecordRateLimitHit(limiter string) {
	APIRateLimitHits.WithLabelValues(limiter).Inc()
}

// RecordAssociationBuild records a build. A failed build only moves the
// error counter.
func RecordAssociationBuild(metric string, d time.Duration, entries int, err error) {
	if err != nil {
		AssociationBuildErrors.WithLabelValues(metric).Inc()
		return
	}
	AssociationBuildDuration.WithLabelValues(metric).Observe(d.Seconds())
	AssociationEntries.WithLabelValues(metric).Set(float64(entries))
}

func RecordRecommendation(kind, metric string, length int) {
	RecommendationRequests.WithLabelValues(kind, metric).Inc()
	RecommendationListLength.WithLabelValues(kind).Observe(float64(length))
}

// RecordEvaluation records a run. measures maps a measure name such as
// "coverage" to its value.
func RecordEvaluation(metric string, d time.Duration, measures map[string]float64) {
	EvaluationDuration.WithLabelValues(metric).Observe(d.Seconds())
	for measure, v := range measures {
		EvaluationScore.WithLabelValues(metric, measure).Set(v)
	}
}

func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

func RecordCacheEviction(cacheType string) {
	CacheEvictions.WithLabelValues(cacheType).Inc()
}

func SetCacheSize(cacheType string, size int) {
	CacheSize.WithLabelValues(cacheType).Set(float64(size))
}

func SetCatalogItems(n int) {
	CatalogItems.Set(float64(n))
}

func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}
