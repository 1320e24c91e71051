// Cinematch - Content-Based Movie Recommendation and Evaluation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/recommend/evaluation"
	"github.com/tomtom215/cinematch/internal/recommend/reranking"
	"github.com/tomtom215/cinematch/internal/recommend/similarity"
)

var (
	// ErrUnknownItem is returned when a requested item id is not in the catalog.
	ErrUnknownItem = errors.New("unknown item")

	// ErrInvalidK is returned when a list length is outside [1, MaxK].
	ErrInvalidK = errors.New("invalid list length")

	// ErrNoTargets is returned when a personalised request names no items.
	ErrNoTargets = errors.New("no target items")
)

const (
	cacheTypeBuild     = "association"
	cacheTypeEvaluator = "evaluator"

	// rerankPoolFactor sizes the candidate pool handed to rerankers.
	rerankPoolFactor = 5
)

// Engine serves recommendations and evaluations for one catalog.
type Engine struct {
	catalog *recommend.Catalog
	cfg     *recommend.Config
	opts    similarity.Options
	logger  zerolog.Logger

	builds     *cache.LRU[*algorithms.SingleTarget]
	evaluators *cache.LRU[*evaluation.Evaluator]
	group      singleflight.Group

	titles *cache.TitleIndex
}

// Stats is a point-in-time summary of the engine.
type Stats struct {
	Items         int      `json:"items"`
	CachedBuilds  int      `json:"cached_builds"`
	CachedNames   []string `json:"cached_metrics"`
	CacheHits     int64    `json:"cache_hits"`
	CacheMisses   int64    `json:"cache_misses"`
	Evictions     int64    `json:"cache_evictions"`
	IndexedTitles int      `json:"indexed_titles"`

	Builds []BuildInfo `json:"builds"`
}

// BuildInfo describes one cached association build.
type BuildInfo struct {
	Metric     string    `json:"metric"`
	BuiltAt    time.Time `json:"built_at"`
	DurationMs int64     `json:"duration_ms"`
	Entries    int       `json:"entries"`
}

// RerankOptions selects optional post-processing of a ranked list.
type RerankOptions struct {
	// Diversity in (0, 1] enables MMR with lambda = 1 - Diversity. 0 disables it.
	Diversity float64

	// Calibrate matches the genre and decade mix of the list to the targets.
	Calibrate bool
}

func (o RerankOptions) enabled() bool {
	return o.Diversity > 0 || o.Calibrate
}

// NewEngine creates an engine over catalog. A nil cfg selects defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(catalog *recommend.Catalog, cfg *recommend.Config, logger zerolog.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		catalog:    catalog,
		cfg:        cfg,
		opts:       similarity.OptionsFrom(cfg.Similarity),
		logger:     logger.With().Str("component", "engine").Logger(),
		builds:     cache.NewLRU[*algorithms.SingleTarget](cfg.Cache.Size, cfg.Cache.TTL),
		evaluators: cache.NewLRU[*evaluation.Evaluator](cfg.Cache.Size, cfg.Cache.TTL),
		titles:     cache.NewTitleIndex(),
	}

	e.builds.OnEvict(func(key string, _ *algorithms.SingleTarget) {
		metrics.RecordCacheEviction(cacheTypeBuild)
		e.logger.Debug().Str("metric", key).Msg("Association build evicted")
	})
	e.evaluators.OnEvict(func(string, *evaluation.Evaluator) {
		metrics.RecordCacheEviction(cacheTypeEvaluator)
	})

	for _, it := range catalog.Items() {
		e.titles.Insert(it.ID, it.Title)
	}
	metrics.SetCatalogItems(catalog.Len())

	return e, nil
}

// Catalog returns the catalog the engine serves.
func (e *Engine) Catalog() *recommend.Catalog {
	return e.catalog
}

// Config returns the engine configuration.
func (e *Engine) Config() *recommend.Config {
	return e.cfg
}

// Metric resolves a metric name with the configured similarity options.
func (e *Engine) Metric(name string) (recommend.Metric, error) {
	return similarity.Parse(name, e.opts)
}

// Item returns a catalog item or ErrUnknownItem.
func (e *Engine) Item(id int) (*recommend.Item, error) {
	it, ok := e.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	return it, nil
}

// Single returns the single-target recommender for a metric, building it on
// first use. Concurrent callers for the same metric share one build. The
// build outlives the caller's context: a caller that gives up returns
// ctx.Err() while the build completes and is cached.
func (e *Engine) Single(ctx context.Context, metricName string) (*algorithms.SingleTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	metric, err := e.Metric(metricName)
	if err != nil {
		return nil, err
	}
	key := metric.Name()

	if rec, ok := e.builds.Get(key); ok {
		metrics.RecordCacheLookup(cacheTypeBuild, true)
		return rec, nil
	}
	metrics.RecordCacheLookup(cacheTypeBuild, false)

	ch := e.group.DoChan(cacheTypeBuild+":"+key, func() (any, error) {
		if rec, ok := e.builds.Peek(key); ok {
			return rec, nil
		}
		return e.build(context.WithoutCancel(ctx), metric)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			e.logger.Debug().Str("metric", key).Msg("Joined in-flight association build")
		}
		return res.Val.(*algorithms.SingleTarget), nil
	}
}

// build computes and caches the association matrix for metric.
func (e *Engine) build(ctx context.Context, metric recommend.Metric) (*algorithms.SingleTarget, error) {
	key := metric.Name()
	logger := e.logger.With().Str("metric", key).Logger()
	logger.Info().Int("items", e.catalog.Len()).Msg("Building associations")

	rec, err := algorithms.NewSingleTarget(ctx, e.catalog, metric, e.cfg.Build)
	if err != nil {
		metrics.RecordAssociationBuild(key, 0, 0, err)
		logger.Error().Err(err).Msg("Association build failed")
		return nil, fmt.Errorf("build %s: %w", key, err)
	}

	entries := rec.Associations().NNZ()
	metrics.RecordAssociationBuild(key, rec.BuildDuration(), entries, nil)
	logger.Info().
		Int("entries", entries).
		Dur("duration", rec.BuildDuration()).
		Msg("Associations built")

	e.builds.Add(key, rec)
	metrics.SetCacheSize(cacheTypeBuild, e.builds.Len())
	return rec, nil
}

// Warm builds every named metric that is not already cached. It stops at the
// first error.
func (e *Engine) Warm(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.Single(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Rebuild recomputes the named metrics and replaces any cached builds.
// Cached evaluators for those metrics are dropped.
func (e *Engine) Rebuild(ctx context.Context, names []string) error {
	for _, name := range names {
		metric, err := e.Metric(name)
		if err != nil {
			return err
		}
		if _, err := e.build(ctx, metric); err != nil {
			return err
		}
		e.evaluators.Remove(metric.Name())
	}
	return nil
}

// ResolveK applies the default list length to k == 0 and rejects values
// outside [1, MaxK].
func (e *Engine) ResolveK(k int) (int, error) {
	if k == 0 {
		return e.cfg.Limits.DefaultK, nil
	}
	if k < 0 || k > e.cfg.Limits.MaxK {
		return 0, fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidK, k, e.cfg.Limits.MaxK)
	}
	return k, nil
}

// Similar returns the top k items associated with itemID under a metric.
func (e *Engine) Similar(ctx context.Context, itemID int, metricName string, k int, rr RerankOptions) ([]recommend.ScoredItem, error) {
	k, err := e.ResolveK(k)
	if err != nil {
		return nil, err
	}
	target, err := e.Item(itemID)
	if err != nil {
		return nil, err
	}
	rec, err := e.Single(ctx, metricName)
	if err != nil {
		return nil, err
	}

	out := e.finish(ctx, rec.Scored(target), []*recommend.Item{target}, k, rr)
	metrics.RecordRecommendation("single", rec.Metric().Name(), len(out))
	return out, nil
}

// Personalised returns the top k items for a set of liked items, aggregating
// associations with the named strategy ("max" or "mean").
func (e *Engine) Personalised(ctx context.Context, itemIDs []int, metricName, strategy string, k int, rr RerankOptions) ([]recommend.ScoredItem, error) {
	k, err := e.ResolveK(k)
	if err != nil {
		return nil, err
	}
	agg, err := algorithms.ParseAggregation(strategy)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return nil, ErrNoTargets
	}

	targets := make([]*recommend.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		it, err := e.Item(id)
		if err != nil {
			return nil, err
		}
		targets = append(targets, it)
	}

	rec, err := e.Single(ctx, metricName)
	if err != nil {
		return nil, err
	}

	out := e.finish(ctx, rec.Multi(agg).Scored(targets), targets, k, rr)
	metrics.RecordRecommendation(agg.String(), rec.Metric().Name(), len(out))
	return out, nil
}

// finish cuts a ranked list to k, reranking a wider candidate pool first
// when requested.
func (e *Engine) finish(ctx context.Context, scored []recommend.ScoredItem, targets []*recommend.Item, k int, rr RerankOptions) []recommend.ScoredItem {
	if !rr.enabled() {
		return algorithms.TopK(scored, k)
	}

	pool := algorithms.TopK(scored, k*rerankPoolFactor)
	for _, r := range e.rerankers(rr, targets) {
		pool = r.Rerank(ctx, pool, len(pool))
	}
	return algorithms.TopK(pool, k)
}

// rerankers returns the rerankers selected by rr, calibration first.
func (e *Engine) rerankers(rr RerankOptions, targets []*recommend.Item) []reranking.Reranker {
	var out []reranking.Reranker
	if rr.Calibrate {
		out = append(out, reranking.NewCalibration(reranking.DefaultCalibrationConfig(), targets))
	}
	if rr.Diversity > 0 {
		out = append(out, reranking.NewMMR(1-min(rr.Diversity, 1), nil))
	}
	return out
}

// Evaluate computes the non-personalised report for a metric at k.
func (e *Engine) Evaluate(ctx context.Context, metricName string, k int) (evaluation.Report, error) {
	if k < 1 {
		return evaluation.Report{}, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}

	ev, err := e.Evaluator(ctx, metricName)
	if err != nil {
		return evaluation.Report{}, err
	}

	start := time.Now()
	report, err := ev.Report(k)
	if err != nil {
		return evaluation.Report{}, err
	}

	metrics.RecordEvaluation(report.Metric, time.Since(start), map[string]float64{
		"coverage":                report.Coverage,
		"recommendation_coverage": report.RecommendationCoverage,
		"item_space_coverage":     report.ItemSpaceCoverage,
		"relevance":               report.Relevance,
		"popularity":              report.Popularity,
		"similarity":              report.Similarity,
	})
	return report, nil
}

// Evaluator returns the non-personalised evaluator for a metric, creating and
// caching it on first use.
func (e *Engine) Evaluator(ctx context.Context, metricName string) (*evaluation.Evaluator, error) {
	rec, err := e.Single(ctx, metricName)
	if err != nil {
		return nil, err
	}
	key := rec.Metric().Name()

	if ev, ok := e.evaluators.Get(key); ok {
		metrics.RecordCacheLookup(cacheTypeEvaluator, true)
		return ev, nil
	}
	metrics.RecordCacheLookup(cacheTypeEvaluator, false)

	v, err, _ := e.group.Do(cacheTypeEvaluator+":"+key, func() (any, error) {
		if ev, ok := e.evaluators.Peek(key); ok {
			return ev, nil
		}
		ev := evaluation.NewEvaluator(rec)
		e.evaluators.Add(key, ev)
		metrics.SetCacheSize(cacheTypeEvaluator, e.evaluators.Len())
		return ev, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*evaluation.Evaluator), nil
}

// PersonalisedEvaluator prepares a personalised evaluator for a metric and
// aggregation over a train/test split.
func (e *Engine) PersonalisedEvaluator(ctx context.Context, metricName string, agg algorithms.Aggregation, train, test *recommend.Matrix) (*evaluation.PersonalisedEvaluator, error) {
	if train == nil || test == nil {
		return nil, errors.New("train and test matrices are required")
	}
	rec, err := e.Single(ctx, metricName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ev := evaluation.NewPersonalisedEvaluator(rec.Multi(agg), e.cfg.Similarity.Threshold, train, test)
	e.logger.Info().
		Str("metric", rec.Metric().Name()).
		Str("strategy", agg.String()).
		Int("train_users", train.Len()).
		Dur("duration", time.Since(start)).
		Msg("Personalised recommendations computed")
	return ev, nil
}

// Search returns items whose title words start with every query word,
// most-rated first. limit <= 0 returns all matches.
func (e *Engine) Search(query string, limit int) []*recommend.Item {
	ids := e.titles.Search(query, 0)
	out := make([]*recommend.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := e.catalog.Get(id); ok {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RatingCount() > out[j].RatingCount()
	})
	if limit > 0 {
		out = algorithms.TopK(out, limit)
	}
	return out
}

// Stats returns a snapshot of catalog and cache state.
func (e *Engine) Stats() Stats {
	hits, misses, evictions, size := e.builds.Stats()
	names := e.builds.Keys()
	sort.Strings(names)

	builds := make([]BuildInfo, 0, len(names))
	for _, name := range names {
		rec, ok := e.builds.Peek(name)
		if !ok {
			continue
		}
		builds = append(builds, BuildInfo{
			Metric:     name,
			BuiltAt:    rec.BuiltAt(),
			DurationMs: rec.BuildDuration().Milliseconds(),
			Entries:    rec.Associations().NNZ(),
		})
	}

	return Stats{
		Items:         e.catalog.Len(),
		CachedBuilds:  size,
		CachedNames:   names,
		CacheHits:     hits,
		CacheMisses:   misses,
		Evictions:     evictions,
		IndexedTitles: e.titles.Size(),
		Builds:        builds,
	}
}

// Cleanup drops expired cache entries and returns how many were removed.
func (e *Engine) Cleanup() int {
	n := e.builds.CleanupExpired() + e.evaluators.CleanupExpired()
	metrics.SetCacheSize(cacheTypeBuild, e.builds.Len())
	metrics.SetCacheSize(cacheTypeEvaluator, e.evaluators.Len())
	return n
}
