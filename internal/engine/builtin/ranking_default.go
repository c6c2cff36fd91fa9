// Package builtin provides the engines that ship with triage.
package builtin

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
)

// DefaultRankingEngineID is the registry id of the built-in ranking engine.
const DefaultRankingEngineID = "triage.ranking.default"

// Configuration keys understood by DefaultRankingEngine.
const (
	ConfigDefaultStrategy = "default_strategy"
	ConfigSuggestionCount = "suggestion_count"
)

// DefaultSuggestionCount is used when neither the request nor the config sets a count.
const DefaultSuggestionCount = 3

// DefaultRankingEngine adapts the domain ranker to the SDK interface.
type DefaultRankingEngine struct {
	mu              sync.RWMutex
	config          sdk.EngineConfig
	defaultStrategy domain.Strategy
	suggestionCount int
	shutdown        bool
}

// NewDefaultRankingEngine creates a new default ranking engine.
func NewDefaultRankingEngine() *DefaultRankingEngine {
	return &DefaultRankingEngine{
		defaultStrategy: domain.SmartBalance,
		suggestionCount: DefaultSuggestionCount,
	}
}

// Metadata returns engine metadata.
func (e *DefaultRankingEngine) Metadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:          DefaultRankingEngineID,
		Name:        "Default Ranking Engine",
		Version:     "1.0.0",
		Description: "Built-in ranking engine scoring urgency, importance, effort and blocked dependents",
		Tags:        []string{"ranking", "builtin", "default"},
		Capabilities: []string{
			types.CapabilityRankTasks,
			types.CapabilitySuggestTasks,
			types.CapabilityDetectCycles,
			types.CapabilityStrategyAware,
		},
	}
}

// Type returns the engine type.
func (e *DefaultRankingEngine) Type() sdk.EngineType {
	return sdk.EngineTypeRanking
}

// ConfigSchema returns the configuration schema.
func (e *DefaultRankingEngine) ConfigSchema() sdk.ConfigSchema {
	names := make([]any, 0, len(domain.Strategies()))
	for _, s := range domain.Strategies() {
		names = append(names, s.Name())
	}

	schema := sdk.NewConfigSchema("Default Ranking Engine", "Options for the built-in ranking engine")
	schema.AddProperty(ConfigDefaultStrategy, sdk.PropertySchema{
		Type:        "string",
		Title:       "Default Strategy",
		Description: "Strategy used when a request does not name one",
		Default:     domain.SmartBalance.Name(),
		Enum:        names,
	}).AddProperty(ConfigSuggestionCount, sdk.PropertySchema{
		Type:        "integer",
		Title:       "Suggestion Count",
		Description: "Number of suggestions returned when a request does not set one",
		Default:     DefaultSuggestionCount,
		Minimum:     sdk.FloatPtr(1),
		Maximum:     sdk.FloatPtr(100),
	})
	return schema
}

// Initialize initializes the engine with configuration.
func (e *DefaultRankingEngine) Initialize(ctx context.Context, config sdk.EngineConfig) error {
	if err := e.ConfigSchema().Validate(config.Raw); err != nil {
		return fmt.Errorf("initialize %s: %w", DefaultRankingEngineID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.config = config
	e.defaultStrategy = domain.SmartBalance
	if config.Has(ConfigDefaultStrategy) {
		e.defaultStrategy, _ = domain.ParseStrategy(config.GetString(ConfigDefaultStrategy))
	}
	e.suggestionCount = DefaultSuggestionCount
	if config.Has(ConfigSuggestionCount) {
		e.suggestionCount = config.GetInt(ConfigSuggestionCount)
	}
	e.shutdown = false
	return nil
}

// HealthCheck returns the engine health status.
func (e *DefaultRankingEngine) HealthCheck(ctx context.Context) sdk.HealthStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.shutdown {
		return sdk.NewHealthStatus(false, "default ranking engine is shut down")
	}
	return sdk.NewHealthStatus(true, "default ranking engine is healthy").WithDetails(map[string]any{
		"default_strategy": e.defaultStrategy.Name(),
		"suggestion_count": e.suggestionCount,
	})
}

// Shutdown gracefully shuts down the engine.
func (e *DefaultRankingEngine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.shutdown = true
	e.mu.Unlock()
	return nil
}

// settings returns the configured defaults, or ErrEngineShutdown.
func (e *DefaultRankingEngine) settings() (domain.Strategy, int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.shutdown {
		return 0, 0, sdk.ErrEngineShutdown
	}
	return e.defaultStrategy, e.suggestionCount, nil
}

func rankerFor(ctx *sdk.ExecutionContext) *domain.Ranker {
	if ctx.Now != nil {
		return &domain.Ranker{Now: ctx.Now}
	}
	return domain.NewRanker()
}

// Rank scores and orders a batch of tasks.
func (e *DefaultRankingEngine) Rank(ctx *sdk.ExecutionContext, input types.RankInput) (*types.RankOutput, error) {
	defaultStrategy, _, err := e.settings()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	strategy := defaultStrategy
	if input.Strategy != "" {
		var ok bool
		if strategy, ok = domain.ParseStrategy(input.Strategy); !ok {
			ctx.Logger.Warn("unknown strategy, using fallback",
				"requested", input.Strategy,
				"strategy", strategy.Name(),
			)
		}
	}

	ranked := rankerFor(ctx).Rank(input.Tasks, strategy)

	ctx.Logger.Debug("ranked tasks",
		"strategy", strategy.Name(),
		"tasks", len(ranked),
	)
	ctx.Metrics.Counter("ranking.tasks_scored", int64(len(ranked)), "strategy", strategy.Name())

	return &types.RankOutput{Strategy: strategy, Tasks: ranked}, nil
}

// Suggest returns the top tasks with reasons.
func (e *DefaultRankingEngine) Suggest(ctx *sdk.ExecutionContext, input types.SuggestInput) (*types.SuggestOutput, error) {
	_, defaultCount, err := e.settings()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	count := input.Count
	if count == 0 {
		count = defaultCount
	}

	suggestions := rankerFor(ctx).Suggest(input.Tasks, count)

	ctx.Logger.Debug("suggested tasks",
		"requested", count,
		"returned", len(suggestions),
	)
	ctx.Metrics.Counter("ranking.suggestions", int64(len(suggestions)))

	return &types.SuggestOutput{Suggestions: suggestions}, nil
}

// DetectCycles reports circular dependencies.
func (e *DefaultRankingEngine) DetectCycles(ctx *sdk.ExecutionContext, input types.CycleInput) (*types.CycleOutput, error) {
	if _, _, err := e.settings(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	warnings := domain.DetectCycles(input.Tasks)
	if len(warnings) > 0 {
		ctx.Logger.Info("circular dependencies detected", "count", len(warnings))
	}
	ctx.Metrics.Counter("ranking.cycle_warnings", int64(len(warnings)))

	return &types.CycleOutput{Warnings: warnings}, nil
}

// Ensure DefaultRankingEngine implements types.RankingEngine
var _ types.RankingEngine = (*DefaultRankingEngine)(nil)
