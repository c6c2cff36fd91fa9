// Package runtime provides execution management for engines with circuit breakers and metrics.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// Operation names recorded in metrics.
const (
	OpRank         = "rank_tasks"
	OpSuggest      = "suggest_tasks"
	OpDetectCycles = "detect_cycles"
)

// Executor manages engine execution with circuit breakers and metrics.
type Executor struct {
	registry *registry.Registry
	metrics  *MetricsCollector
	logger   *slog.Logger
	config   ExecutorConfig
	clock    func() time.Time

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

// ExecutorConfig configures the executor behavior.
type ExecutorConfig struct {
	// CircuitBreakerEnabled enables circuit breakers.
	CircuitBreakerEnabled bool

	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips the breaker.
	FailureThreshold uint32

	// DefaultTimeout bounds each engine call. Zero disables it.
	DefaultTimeout time.Duration
}

// DefaultExecutorConfig returns a sensible default configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CircuitBreakerEnabled: true,
		MaxRequests:           3,
		Interval:              10 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      5,
		DefaultTimeout:        10 * time.Second,
	}
}

// NewExecutor creates a new engine executor.
func NewExecutor(reg *registry.Registry, metrics *MetricsCollector, logger *slog.Logger, config ExecutorConfig) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetricsCollector()
	}
	return &Executor{
		registry: reg,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		metrics:  metrics,
		logger:   logger,
		config:   config,
		clock:    time.Now,
	}
}

// WithClock sets the clock handed to engines as their notion of "today".
func (e *Executor) WithClock(now func() time.Time) *Executor {
	if now != nil {
		e.clock = now
	}
	return e
}

// getBreaker returns the circuit breaker for an engine, creating it if needed.
func (e *Executor) getBreaker(engineID string) *gobreaker.CircuitBreaker[any] {
	if !e.config.CircuitBreakerEnabled {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, exists := e.breakers[engineID]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        engineID,
		MaxRequests: e.config.MaxRequests,
		Interval:    e.config.Interval,
		Timeout:     e.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= e.config.FailureThreshold
		},
		// Caller cancellation says nothing about engine health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Info("circuit breaker state changed",
				"engine_id", name,
				"from", from.String(),
				"to", to.String(),
			)
			e.metrics.RecordCircuitBreakerChange(name, to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[engineID] = breaker
	return breaker
}

// execute runs an operation with circuit breaker protection.
func (e *Executor) execute(engineID, operation string, fn func() (any, error)) (any, error) {
	start := time.Now()

	breaker := e.getBreaker(engineID)
	var result any
	var err error

	if breaker != nil {
		result, err = breaker.Execute(fn)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			e.metrics.RecordCircuitOpen(engineID)
			return nil, sdk.NewEngineError(engineID, operation, sdk.ErrCircuitOpen)
		}
	} else {
		result, err = fn()
	}

	e.metrics.RecordOperation(engineID, operation, time.Since(start), err)
	if err != nil {
		return nil, sdk.NewEngineError(engineID, operation, err)
	}
	return result, nil
}

// createContext creates an ExecutionContext for an operation.
func (e *Executor) createContext(ctx context.Context, userID uuid.UUID, engineID string) *sdk.ExecutionContext {
	execCtx := sdk.NewExecutionContext(ctx, userID, engineID)
	execCtx.WithLogger(e.logger)
	execCtx.WithMetrics(e.metrics)
	execCtx.WithClock(e.clock)
	return execCtx
}

// rankingEngine resolves engineID to a ranking engine.
func (e *Executor) rankingEngine(ctx context.Context, engineID string) (types.RankingEngine, error) {
	engine, err := e.registry.Get(ctx, engineID)
	if err != nil {
		return nil, err
	}

	ranking, ok := engine.(types.RankingEngine)
	if !ok {
		return nil, sdk.NewEngineError(engineID, "resolve", fmt.Errorf("not a ranking engine: %w", sdk.ErrUnsupportedOperation))
	}
	return ranking, nil
}

// run resolves the engine, bounds the call with DefaultTimeout and executes it
// behind the engine's breaker.
func run[T any](
	e *Executor,
	ctx context.Context,
	engineID string,
	userID uuid.UUID,
	operation string,
	call func(types.RankingEngine, *sdk.ExecutionContext) (T, error),
) (T, error) {
	var zero T

	ranking, err := e.rankingEngine(ctx, engineID)
	if err != nil {
		return zero, err
	}

	if e.config.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.DefaultTimeout)
		defer cancel()
	}
	execCtx := e.createContext(ctx, userID, engineID)

	result, err := e.execute(engineID, operation, func() (any, error) {
		return call(ranking, execCtx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// ExecuteRank ranks a batch of tasks.
func (e *Executor) ExecuteRank(ctx context.Context, engineID string, userID uuid.UUID, input types.RankInput) (*types.RankOutput, error) {
	return run(e, ctx, engineID, userID, OpRank, func(r types.RankingEngine, ec *sdk.ExecutionContext) (*types.RankOutput, error) {
		return r.Rank(ec, input)
	})
}

// ExecuteSuggest picks the top tasks of a batch.
func (e *Executor) ExecuteSuggest(ctx context.Context, engineID string, userID uuid.UUID, input types.SuggestInput) (*types.SuggestOutput, error) {
	return run(e, ctx, engineID, userID, OpSuggest, func(r types.RankingEngine, ec *sdk.ExecutionContext) (*types.SuggestOutput, error) {
		return r.Suggest(ec, input)
	})
}

// ExecuteDetectCycles reports circular dependencies in a batch.
func (e *Executor) ExecuteDetectCycles(ctx context.Context, engineID string, userID uuid.UUID, input types.CycleInput) (*types.CycleOutput, error) {
	return run(e, ctx, engineID, userID, OpDetectCycles, func(r types.RankingEngine, ec *sdk.ExecutionContext) (*types.CycleOutput, error) {
		return r.DetectCycles(ec, input)
	})
}

// HealthCheck checks the health of an engine.
func (e *Executor) HealthCheck(ctx context.Context, engineID string) (sdk.HealthStatus, error) {
	engine, err := e.registry.Get(ctx, engineID)
	if err != nil {
		return sdk.NewHealthStatus(false, err.Error()), err
	}

	status := engine.HealthCheck(ctx)
	if status.Details == nil {
		status.Details = make(map[string]any)
	}
	status.Details["circuit_breaker"] = e.GetCircuitBreakerState(engineID)
	return status, nil
}

// GetMetrics returns the current metrics.
func (e *Executor) GetMetrics() map[string]EngineMetrics {
	return e.metrics.GetAll()
}

// Metrics returns the collector backing this executor.
func (e *Executor) Metrics() *MetricsCollector {
	return e.metrics
}

// GetCircuitBreakerState returns the circuit breaker state for an engine.
func (e *Executor) GetCircuitBreakerState(engineID string) string {
	e.mu.Lock()
	breaker := e.breakers[engineID]
	e.mu.Unlock()

	if breaker == nil {
		return "none"
	}
	return breaker.State().String()
}

// ResetCircuitBreaker resets the circuit breaker for an engine.
func (e *Executor) ResetCircuitBreaker(engineID string) {
	e.mu.Lock()
	delete(e.breakers, engineID)
	e.mu.Unlock()
	e.logger.Info("circuit breaker reset", "engine_id", engineID)
}
