package sdk

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ExecutionContext provides runtime context for engine operations.
// It wraps the standard context.Context and adds engine-specific utilities.
type ExecutionContext struct {
	ctx context.Context

	// UserID is the user on whose behalf this operation is running.
	UserID uuid.UUID

	// EngineID identifies which engine is executing.
	EngineID string

	// RequestID is a unique identifier for this execution request.
	RequestID string

	// Logger is a structured logger for the engine to use.
	Logger *slog.Logger

	// Metrics allows engines to record custom metrics.
	Metrics MetricsRecorder

	// Now is the clock engines use to decide what "today" is.
	Now func() time.Time

	// StartTime is when this execution started.
	StartTime time.Time
}

// NewExecutionContext creates a new execution context.
func NewExecutionContext(ctx context.Context, userID uuid.UUID, engineID string) *ExecutionContext {
	return &ExecutionContext{
		ctx:       ctx,
		UserID:    userID,
		EngineID:  engineID,
		RequestID: uuid.New().String(),
		Logger:    slog.Default(),
		Metrics:   &noopMetricsRecorder{},
		Now:       time.Now,
		StartTime: time.Now(),
	}
}

// Context returns the underlying context.Context.
func (ec *ExecutionContext) Context() context.Context {
	return ec.ctx
}

// Err returns a non-nil error value after the underlying context is done.
func (ec *ExecutionContext) Err() error {
	return ec.ctx.Err()
}

// WithLogger sets a custom logger for this context.
func (ec *ExecutionContext) WithLogger(logger *slog.Logger) *ExecutionContext {
	ec.Logger = logger.With(
		"engine_id", ec.EngineID,
		"user_id", ec.UserID.String(),
		"request_id", ec.RequestID,
	)
	return ec
}

// WithMetrics sets a custom metrics recorder for this context.
func (ec *ExecutionContext) WithMetrics(metrics MetricsRecorder) *ExecutionContext {
	ec.Metrics = metrics
	return ec
}

// WithClock replaces the clock used by engines.
func (ec *ExecutionContext) WithClock(now func() time.Time) *ExecutionContext {
	if now != nil {
		ec.Now = now
	}
	return ec
}

// Elapsed returns the duration since this execution started.
func (ec *ExecutionContext) Elapsed() time.Duration {
	return time.Since(ec.StartTime)
}

// MetricsRecorder allows engines to record custom metrics.
type MetricsRecorder interface {
	Counter(name string, value int64, tags ...string)
	Gauge(name string, value float64, tags ...string)
	Histogram(name string, value float64, tags ...string)
	Timing(name string, duration time.Duration, tags ...string)
}

type noopMetricsRecorder struct{}

func (n *noopMetricsRecorder) Counter(_ string, _ int64, _ ...string)        {}
func (n *noopMetricsRecorder) Gauge(_ string, _ float64, _ ...string)        {}
func (n *noopMetricsRecorder) Histogram(_ string, _ float64, _ ...string)    {}
func (n *noopMetricsRecorder) Timing(_ string, _ time.Duration, _ ...string) {}

// NewNoopMetricsRecorder returns a no-op metrics recorder.
func NewNoopMetricsRecorder() MetricsRecorder {
	return &noopMetricsRecorder{}
}
