package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/builtin"
	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/engine/runtime"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
	"github.com/felixgeelhaar/triage/internal/ranking/infrastructure/cache"
	"github.com/felixgeelhaar/triage/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return testNow }

type brokenCache struct {
	sets int
}

func (c *brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (c *brokenCache) Set(context.Context, string, []byte) error {
	c.sets++
	return errors.New("connection refused")
}

func newTestAnalyzer(t *testing.T, resultCache cache.ResultCache, cfg Config) (*Analyzer, *observability.InMemoryMetrics) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := registry.NewRegistry(logger)
	require.NoError(t, reg.RegisterBuiltin(builtin.NewDefaultRankingEngine()))
	executor := runtime.NewExecutor(reg, nil, logger, runtime.DefaultExecutorConfig()).WithClock(clock)

	if cfg.EngineID == "" {
		cfg.EngineID = builtin.DefaultRankingEngineID
	}
	metrics := observability.NewInMemoryMetrics()
	return NewAnalyzer(executor, resultCache, cfg, logger, metrics).WithClock(clock), metrics
}

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestAnalyzer_Analyze(t *testing.T) {
	analyzer, metrics := newTestAnalyzer(t, nil, Config{})

	result, err := analyzer.Analyze(context.Background(), AnalyzeRequest{Tasks: analyzer.DemoTasks()})
	require.NoError(t, err)

	assert.Equal(t, "smart_balance", result.StrategyUsed)
	assert.Equal(t, 3, result.TotalTasks)
	assert.Empty(t, result.Warnings)
	assert.False(t, result.Cached)

	require.Len(t, result.Tasks, 3)
	top := result.Tasks[0]
	assert.Equal(t, 2, top.ID)
	assert.Equal(t, "Fix critical login bug", top.Title)
	require.NotNil(t, top.DueDate)
	assert.Equal(t, "2025-06-15", *top.DueDate)
	assert.Equal(t, 150.0, top.Score)
	assert.Equal(t, "high", top.PriorityLevel)
	assert.Equal(t, ScoreBreakdown{Urgency: 90, Importance: 45, Effort: 15}, top.ScoreBreakdown)
	assert.Equal(t, "Balanced priority scoring", top.Strategy)
	assert.NotNil(t, top.ValidationWarnings)

	assert.Equal(t, 1, result.Tasks[1].ID)
	assert.Equal(t, 123.0, result.Tasks[1].Score)
	assert.Equal(t, 3, result.Tasks[2].ID)
	assert.Equal(t, 63.0, result.Tasks[2].Score)
	assert.Equal(t, "medium", result.Tasks[2].PriorityLevel)

	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricAnalyses, observability.T("strategy", "smart_balance")))
}

func TestAnalyzer_AnalyzeStrategyResolution(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		fallback  string
		want      string
	}{
		{"explicit", "high_impact", "", "high_impact"},
		{"unknown falls back", "random", "", "smart_balance"},
		{"empty uses configured default", "", "deadline_driven", "deadline_driven"},
		{"empty without default", "", "", "smart_balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer, _ := newTestAnalyzer(t, nil, Config{DefaultStrategy: tt.fallback})
			result, err := analyzer.Analyze(context.Background(), AnalyzeRequest{
				Tasks:    analyzer.DemoTasks(),
				Strategy: tt.requested,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.StrategyUsed)
		})
	}
}

func TestAnalyzer_AnalyzeReportsCycles(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{})

	result, err := analyzer.Analyze(context.Background(), AnalyzeRequest{Tasks: []domain.RawTask{
		{"id": "A", "dependencies": []any{"B"}},
		{"id": "B", "dependencies": []any{"A"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalTasks)
	assert.Equal(t, []string{"Circular dependency detected involving task ID: A"}, result.Warnings)
}

func TestAnalyzer_AnalyzeMalformedTasks(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{})

	result, err := analyzer.Analyze(context.Background(), AnalyzeRequest{Tasks: []domain.RawTask{
		{"title": "broken", "importance": "very", "estimated_hours": "lots", "due_date": "soon"},
	}})
	require.NoError(t, err)

	task := result.Tasks[0]
	assert.Nil(t, task.DueDate)
	assert.Equal(t, 5, task.Importance)
	assert.Equal(t, []any{}, task.Dependencies)
	assert.Equal(t, []string{domain.WarnInvalidImportance, domain.WarnInvalidHours, domain.WarnInvalidDueDate}, task.ValidationWarnings)
}

func TestAnalyzer_BatchLimits(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{MaxBatchSize: 2})
	ctx := context.Background()

	_, err := analyzer.Analyze(ctx, AnalyzeRequest{})
	assert.ErrorIs(t, err, ErrNoTasks)

	_, err = analyzer.Analyze(ctx, AnalyzeRequest{Tasks: analyzer.DemoTasks()})
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	_, err = analyzer.Suggest(ctx, SuggestRequest{Tasks: analyzer.DemoTasks()})
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	_, err = analyzer.DetectCycles(ctx, nil)
	assert.ErrorIs(t, err, ErrNoTasks)
}

func TestAnalyzer_CancelledContext(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Analyze(ctx, AnalyzeRequest{Tasks: analyzer.DemoTasks()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzer_Cache(t *testing.T) {
	store := cache.NewInMemoryCache(time.Minute)
	analyzer, metrics := newTestAnalyzer(t, store, Config{})
	ctx := context.Background()
	req := AnalyzeRequest{Tasks: analyzer.DemoTasks(), Strategy: "fastest_wins"}

	first, err := analyzer.Analyze(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, store.Len())

	second, err := analyzer.Analyze(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.StrategyUsed, second.StrategyUsed)
	assert.Equal(t, first.TotalTasks, second.TotalTasks)
	require.Len(t, second.Tasks, 3)
	assert.Equal(t, first.Tasks[0].Score, second.Tasks[0].Score)
	assert.Equal(t, first.Tasks[0].Title, second.Tasks[0].Title)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheHits, observability.T("strategy", "fastest_wins")))

	_, err = analyzer.Analyze(ctx, AnalyzeRequest{Tasks: analyzer.DemoTasks(), Strategy: "high_impact"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestAnalyzer_CacheFailuresAreNotFatal(t *testing.T) {
	broken := &brokenCache{}
	analyzer, metrics := newTestAnalyzer(t, broken, Config{})

	result, err := analyzer.Analyze(context.Background(), AnalyzeRequest{Tasks: analyzer.DemoTasks()})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalTasks)
	assert.Equal(t, 1, broken.sets)
	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricCacheErrors))
}

func TestAnalyzer_CacheKey(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{})

	a, err := analyzer.cacheKey("analyze", []domain.RawTask{{"id": 1, "title": "x"}}, domain.SmartBalance)
	require.NoError(t, err)
	b, err := analyzer.cacheKey("analyze", []domain.RawTask{{"title": "x", "id": 1}}, domain.SmartBalance)
	require.NoError(t, err)
	c, err := analyzer.cacheKey("analyze", []domain.RawTask{{"id": 1, "title": "x"}}, domain.HighImpact)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	_, err = analyzer.cacheKey("analyze", []domain.RawTask{{"id": make(chan int)}}, domain.SmartBalance)
	assert.Error(t, err)
}

func TestAnalyzer_Suggest(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{SuggestionCount: 2})
	ctx := context.Background()

	result, err := analyzer.Suggest(ctx, SuggestRequest{Tasks: analyzer.DemoTasks()})
	require.NoError(t, err)
	require.Len(t, result.Suggestions, 2)

	bug := result.Suggestions[0]
	assert.Equal(t, 1, bug.Rank)
	assert.Equal(t, 2, bug.ID)
	assert.Equal(t, []string{domain.ReasonDueSoon, domain.ReasonHighImportant, domain.ReasonQuickWin}, bug.WhyWorkOnThis)

	docs := result.Suggestions[1]
	assert.Equal(t, 2, docs.Rank)
	assert.Equal(t, []string{domain.ReasonDueSoon}, docs.WhyWorkOnThis)

	result, err = analyzer.Suggest(ctx, SuggestRequest{Tasks: analyzer.DemoTasks(), Count: 10})
	require.NoError(t, err)
	assert.Len(t, result.Suggestions, 3)

	_, err = analyzer.Suggest(ctx, SuggestRequest{Tasks: analyzer.DemoTasks(), Count: -1})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAnalyzer_SuggestDefaultCount(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{})
	tasks := []domain.RawTask{
		{"id": 1, "importance": 1}, {"id": 2, "importance": 2},
		{"id": 3, "importance": 3}, {"id": 4, "importance": 4},
	}

	result, err := analyzer.Suggest(context.Background(), SuggestRequest{Tasks: tasks})
	require.NoError(t, err)
	assert.Len(t, result.Suggestions, 3)
}

func TestAnalyzer_DetectCycles(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{})

	warnings, err := analyzer.DetectCycles(context.Background(), []domain.RawTask{
		{"id": 1, "dependencies": []any{1}},
		{"id": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Circular dependency detected involving task ID: 1"}, warnings)
}

func TestAnalyzer_UnknownEngine(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{EngineID: "missing"})

	_, err := analyzer.Analyze(context.Background(), AnalyzeRequest{Tasks: analyzer.DemoTasks()})
	require.Error(t, err)
	assert.ErrorContains(t, err, "engine not found")
}

func TestAnalyzer_Strategies(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t, nil, Config{})

	infos := analyzer.Strategies()
	require.Len(t, infos, 4)
	assert.Equal(t, StrategyInfo{Name: "smart_balance", Description: "Balanced priority scoring"}, infos[0])
	assert.Equal(t, "deadline_driven", infos[3].Name)
}

func TestDemoTasks(t *testing.T) {
	tasks := DemoTasks(testNow)
	require.Len(t, tasks, 3)
	assert.Equal(t, day(0), tasks[1]["due_date"])
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), (&Analyzer{clock: clock}).Today())
}
