// Package application coordinates ranking requests: it validates batch limits,
// consults the result cache and runs the ranking engine through the executor.
package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/types"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
	"github.com/felixgeelhaar/triage/internal/ranking/infrastructure/cache"
	"github.com/felixgeelhaar/triage/pkg/observability"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Executor runs ranking engine operations.
type Executor interface {
	ExecuteRank(ctx context.Context, engineID string, userID uuid.UUID, input types.RankInput) (*types.RankOutput, error)
	ExecuteSuggest(ctx context.Context, engineID string, userID uuid.UUID, input types.SuggestInput) (*types.SuggestOutput, error)
	ExecuteDetectCycles(ctx context.Context, engineID string, userID uuid.UUID, input types.CycleInput) (*types.CycleOutput, error)
}

// Config tunes the Analyzer.
type Config struct {
	EngineID        string
	UserID          uuid.UUID
	DefaultStrategy string
	SuggestionCount int
	MaxBatchSize    int
}

// AnalyzeRequest is a batch plus an optional strategy name.
type AnalyzeRequest struct {
	Tasks    []domain.RawTask
	Strategy string
}

// SuggestRequest is a batch plus an optional suggestion count.
type SuggestRequest struct {
	Tasks []domain.RawTask
	Count int
}

// Analyzer is the entry point used by the CLI, HTTP and MCP adapters.
type Analyzer struct {
	executor Executor
	cache    cache.ResultCache
	config   Config
	logger   *slog.Logger
	metrics  observability.Metrics
	clock    func() time.Time
}

// NewAnalyzer creates an Analyzer. A nil cache disables caching.
func NewAnalyzer(executor Executor, resultCache cache.ResultCache, cfg Config, logger *slog.Logger, metrics observability.Metrics) *Analyzer {
	if resultCache == nil {
		resultCache = cache.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.SuggestionCount <= 0 {
		cfg.SuggestionCount = 3
	}
	return &Analyzer{
		executor: executor,
		cache:    resultCache,
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		clock:    time.Now,
	}
}

// WithClock sets the clock used for cache keys and demo data.
// It should match the clock given to the engine executor.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	if now != nil {
		a.clock = now
	}
	return a
}

// Today returns the current calendar date at UTC midnight.
func (a *Analyzer) Today() time.Time {
	y, m, d := a.clock().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (a *Analyzer) checkBatch(tasks []domain.RawTask) error {
	if len(tasks) == 0 {
		return ErrNoTasks
	}
	if a.config.MaxBatchSize > 0 && len(tasks) > a.config.MaxBatchSize {
		return fmt.Errorf("%w: %d tasks, limit is %d", ErrBatchTooLarge, len(tasks), a.config.MaxBatchSize)
	}
	return nil
}

// resolveStrategy applies the configured default to an empty name and the
// smart_balance fallback to unknown names.
func (a *Analyzer) resolveStrategy(name string) domain.Strategy {
	if name == "" {
		name = a.config.DefaultStrategy
	}
	strategy, _ := domain.ParseStrategy(name)
	return strategy
}

// Analyze ranks a batch and reports circular dependencies.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.checkBatch(req.Tasks); err != nil {
		return nil, err
	}

	strategy := a.resolveStrategy(req.Strategy)
	tags := []observability.Tag{observability.T("strategy", strategy.Name())}
	logger := a.logger.With(
		observability.CorrelationIDKey, observability.CorrelationIDFromContext(ctx),
		"strategy", strategy.Name(),
		"tasks", len(req.Tasks),
	)

	key, keyErr := a.cacheKey("analyze", req.Tasks, strategy)
	if keyErr != nil {
		logger.Debug("batch is not cacheable", observability.ErrorKey, keyErr)
	} else if cached, ok := a.cachedAnalysis(ctx, key, logger); ok {
		a.metrics.Counter(observability.MetricCacheHits, 1, tags...)
		return cached, nil
	}

	result, err := observability.TimeOperationResult(ctx, logger, a.metrics, "analyze", func() (*AnalysisResult, error) {
		var (
			ranked *types.RankOutput
			cycles *types.CycleOutput
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			cycles, err = a.executor.ExecuteDetectCycles(gctx, a.config.EngineID, a.config.UserID, types.CycleInput{Tasks: req.Tasks})
			return err
		})
		g.Go(func() error {
			var err error
			ranked, err = a.executor.ExecuteRank(gctx, a.config.EngineID, a.config.UserID, types.RankInput{Tasks: req.Tasks, Strategy: strategy.Name()})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("analyze tasks: %w", err)
		}

		return &AnalysisResult{
			StrategyUsed: ranked.Strategy.Name(),
			TotalTasks:   len(ranked.Tasks),
			Tasks:        toTaskResults(ranked.Tasks),
			Warnings:     cycles.Warnings,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	a.metrics.Counter(observability.MetricAnalyses, 1, tags...)
	a.metrics.Counter(observability.MetricTasksRanked, int64(result.TotalTasks), tags...)
	if len(result.Warnings) > 0 {
		a.metrics.Counter(observability.MetricCycleWarnings, int64(len(result.Warnings)))
		logger.Warn("circular dependencies detected", "warnings", result.Warnings)
	}

	if keyErr == nil {
		a.storeAnalysis(ctx, key, result, logger)
	}
	return result, nil
}

// Suggest returns the top tasks to work on, with reasons.
func (a *Analyzer) Suggest(ctx context.Context, req SuggestRequest) (*SuggestionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.checkBatch(req.Tasks); err != nil {
		return nil, err
	}

	count := req.Count
	switch {
	case count < 0:
		return nil, fmt.Errorf("%w: count must not be negative", ErrInvalidRequest)
	case count == 0:
		count = a.config.SuggestionCount
	}

	logger := a.logger.With(
		observability.CorrelationIDKey, observability.CorrelationIDFromContext(ctx),
		"count", count,
		"tasks", len(req.Tasks),
	)

	return observability.TimeOperationResult(ctx, logger, a.metrics, "suggest", func() (*SuggestionResult, error) {
		var (
			suggested *types.SuggestOutput
			cycles    *types.CycleOutput
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			cycles, err = a.executor.ExecuteDetectCycles(gctx, a.config.EngineID, a.config.UserID, types.CycleInput{Tasks: req.Tasks})
			return err
		})
		g.Go(func() error {
			var err error
			suggested, err = a.executor.ExecuteSuggest(gctx, a.config.EngineID, a.config.UserID, types.SuggestInput{Tasks: req.Tasks, Count: count})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("suggest tasks: %w", err)
		}

		a.metrics.Counter(observability.MetricSuggestions, int64(len(suggested.Suggestions)))
		return &SuggestionResult{
			Suggestions: toSuggestedTasks(suggested.Suggestions),
			Warnings:    cycles.Warnings,
		}, nil
	})
}

// DetectCycles reports circular dependencies in a batch.
func (a *Analyzer) DetectCycles(ctx context.Context, tasks []domain.RawTask) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.checkBatch(tasks); err != nil {
		return nil, err
	}

	out, err := a.executor.ExecuteDetectCycles(ctx, a.config.EngineID, a.config.UserID, types.CycleInput{Tasks: tasks})
	if err != nil {
		return nil, fmt.Errorf("detect cycles: %w", err)
	}
	a.metrics.Counter(observability.MetricCycleWarnings, int64(len(out.Warnings)))
	return out.Warnings, nil
}

// Strategies lists every scoring strategy.
func (a *Analyzer) Strategies() []StrategyInfo {
	all := domain.Strategies()
	infos := make([]StrategyInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, StrategyInfo{Name: s.Name(), Description: s.Description()})
	}
	return infos
}

// DemoTasks returns the sample batch for the analyzer's current date.
func (a *Analyzer) DemoTasks() []domain.RawTask {
	return DemoTasks(a.Today())
}

// cacheKey digests the canonical JSON form of the request. encoding/json
// writes map keys in sorted order, so equal batches produce equal keys.
func (a *Analyzer) cacheKey(operation string, tasks []domain.RawTask, strategy domain.Strategy) (string, error) {
	payload, err := json.Marshal(struct {
		Operation string           `json:"op"`
		Today     string           `json:"today"`
		Strategy  string           `json:"strategy"`
		Tasks     []domain.RawTask `json:"tasks"`
	}{operation, a.Today().Format(dateLayout), strategy.Name(), tasks})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func (a *Analyzer) cachedAnalysis(ctx context.Context, key string, logger *slog.Logger) (*AnalysisResult, bool) {
	data, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			a.metrics.Counter(observability.MetricCacheErrors, 1)
			logger.Warn("result cache read failed", observability.ErrorKey, err)
		}
		return nil, false
	}

	var result AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn("discarding unreadable cached result", observability.ErrorKey, err)
		return nil, false
	}
	result.Cached = true
	logger.Debug("served analysis from cache", "key", key)
	return &result, true
}

func (a *Analyzer) storeAnalysis(ctx context.Context, key string, result *AnalysisResult, logger *slog.Logger) {
	data, err := json.Marshal(result)
	if err == nil {
		err = a.cache.Set(ctx, key, data)
	}
	if err != nil {
		a.metrics.Counter(observability.MetricCacheErrors, 1)
		logger.Warn("result cache write failed", observability.ErrorKey, err)
	}
}
