package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthRegistry_AllHealthy(t *testing.T) {
	r := NewHealthRegistry(time.Second)
	r.Register("cache", CacheHealthChecker(func(context.Context) error { return nil }))
	r.Register("engine", ProbeHealthChecker(func(context.Context) (bool, string, map[string]any) {
		return true, "ok", map[string]any{"circuit_breaker": "closed"}
	}))

	health := r.Check(context.Background())

	assert.Equal(t, HealthStatusHealthy, health.Status)
	require.Len(t, health.Checks, 2)
	assert.Equal(t, "closed", health.Checks["engine"].Details["circuit_breaker"])
	assert.False(t, health.Checks["cache"].Timestamp.IsZero())
	assert.Equal(t, []string{"cache", "engine"}, r.Names())
}

func TestHealthRegistry_WorstStatusWins(t *testing.T) {
	r := NewHealthRegistry(0)
	r.Register("cache", CacheHealthChecker(func(context.Context) error { return errors.New("refused") }))

	health := r.Check(context.Background())
	assert.Equal(t, HealthStatusDegraded, health.Status)
	assert.Contains(t, health.Checks["cache"].Message, "refused")

	r.Register("engine", ProbeHealthChecker(func(context.Context) (bool, string, map[string]any) {
		return false, "engine is shut down", nil
	}))

	health = r.Check(context.Background())
	assert.Equal(t, HealthStatusUnhealthy, health.Status)
}

func TestHealthRegistry_TimeoutBoundsChecks(t *testing.T) {
	r := NewHealthRegistry(20 * time.Millisecond)
	r.Register("slow", CacheHealthChecker(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	health := r.Check(context.Background())
	assert.Equal(t, HealthStatusDegraded, health.Status)
}

func TestHealthRegistry_Empty(t *testing.T) {
	health := NewHealthRegistry(time.Second).Check(context.Background())
	assert.Equal(t, HealthStatusHealthy, health.Status)
	assert.Empty(t, health.Checks)
}
