package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
	"github.com/felixgeelhaar/triage/pkg/observability"
	"github.com/go-playground/validator/v10"
)

type analyzeInput struct {
	Tasks    []map[string]any `json:"tasks" jsonschema:"required"`
	Strategy string           `json:"strategy,omitempty" validate:"max=64"`
}

type suggestInput struct {
	Tasks []map[string]any `json:"tasks,omitempty"`
	Count int              `json:"count,omitempty" validate:"min=0,max=100"`
	Demo  bool             `json:"demo,omitempty"`
}

type cyclesInput struct {
	Tasks []map[string]any `json:"tasks" jsonschema:"required"`
}

type emptyInput struct{}

// CyclesOutput is the tasks.cycles result.
type CyclesOutput struct {
	Warnings []string `json:"warnings"`
	HasCycle bool     `json:"has_cycle"`
}

type toolHandlers struct {
	analyzer *application.Analyzer
	checks   *observability.HealthRegistry
	metrics  observability.Metrics
	logger   *slog.Logger
	validate *validator.Validate
}

func newToolHandlers(deps ToolDependencies) (*toolHandlers, error) {
	if deps.Analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	h := &toolHandlers{
		analyzer: deps.Analyzer,
		checks:   deps.Health,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		validate: validator.New(),
	}
	if h.metrics == nil {
		h.metrics = observability.NoopMetrics{}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h, nil
}

func (h *toolHandlers) called(ctx context.Context, tool string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		h.logger.WarnContext(ctx, "mcp tool failed", "tool", tool, observability.ErrorKey, err)
	}
	h.metrics.Counter(observability.MetricMCPToolCalls, 1,
		observability.T("tool", tool),
		observability.T("status", status),
	)
}

func (h *toolHandlers) analyze(ctx context.Context, input analyzeInput) (result *application.AnalysisResult, err error) {
	defer func() { h.called(ctx, "tasks.analyze", err) }()

	if err := h.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	return h.analyzer.Analyze(ctx, application.AnalyzeRequest{
		Tasks:    rawTasks(input.Tasks),
		Strategy: input.Strategy,
	})
}

func (h *toolHandlers) suggest(ctx context.Context, input suggestInput) (result *application.SuggestionResult, err error) {
	defer func() { h.called(ctx, "tasks.suggest", err) }()

	if err := h.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}
	tasks := rawTasks(input.Tasks)
	if input.Demo {
		tasks = h.analyzer.DemoTasks()
	}
	return h.analyzer.Suggest(ctx, application.SuggestRequest{Tasks: tasks, Count: input.Count})
}

func (h *toolHandlers) cycles(ctx context.Context, input cyclesInput) (result *CyclesOutput, err error) {
	defer func() { h.called(ctx, "tasks.cycles", err) }()

	warnings, err := h.analyzer.DetectCycles(ctx, rawTasks(input.Tasks))
	if err != nil {
		return nil, err
	}
	return &CyclesOutput{Warnings: warnings, HasCycle: len(warnings) > 0}, nil
}

func (h *toolHandlers) strategies(ctx context.Context, _ emptyInput) ([]application.StrategyInfo, error) {
	h.called(ctx, "strategies.list", nil)
	return h.analyzer.Strategies(), nil
}

func (h *toolHandlers) health(ctx context.Context, _ emptyInput) (*observability.OverallHealth, error) {
	if h.checks == nil {
		err := errors.New("health checks not configured")
		h.called(ctx, "engine.health", err)
		return nil, err
	}
	report := h.checks.Check(ctx)
	h.called(ctx, "engine.health", nil)
	return &report, nil
}

func rawTasks(tasks []map[string]any) []domain.RawTask {
	out := make([]domain.RawTask, len(tasks))
	for i, task := range tasks {
		out[i] = domain.RawTask(task)
	}
	return out
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", application.ErrInvalidRequest, err)
}
