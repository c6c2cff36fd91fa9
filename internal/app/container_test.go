package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/felixgeelhaar/triage/internal/engine/builtin"
	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/internal/ranking/infrastructure/cache"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/felixgeelhaar/triage/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "test",
		LogLevel:                "info",
		UserID:                  "00000000-0000-0000-0000-000000000001",
		DefaultStrategy:         "smart_balance",
		SuggestionCount:         3,
		MaxBatchSize:            100,
		CacheTTL:                time.Minute,
		CacheEnabled:            true,
		EngineTimeout:           time.Second,
		BreakerEnabled:          true,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      time.Second,
		BreakerHalfOpenRequests: 1,
		APIAddr:                 "127.0.0.1:0",
		MCPAddr:                 "127.0.0.1:0",
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewContainer_InMemory(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(), quietLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.IsType(t, &cache.InMemoryCache{}, c.Cache)
	assert.Nil(t, c.RedisCache)
	assert.True(t, c.EngineRegistry.Has(builtin.DefaultRankingEngineID))

	status, err := c.EngineRegistry.Status(builtin.DefaultRankingEngineID)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusUnloaded, status)

	result, err := c.Analyzer.Analyze(context.Background(), application.AnalyzeRequest{Tasks: c.Analyzer.DemoTasks()})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalTasks)

	status, err = c.EngineRegistry.Status(builtin.DefaultRankingEngineID)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusReady, status)

	health := c.Health.Check(context.Background())
	assert.Equal(t, observability.HealthStatusHealthy, health.Status)
	assert.Equal(t, []string{"engine"}, c.Health.Names())
}

func TestNewContainer_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()

	c, err := NewContainer(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	require.NotNil(t, c.RedisCache)
	assert.Equal(t, []string{"cache", "engine"}, c.Health.Names())

	_, err = c.Analyzer.Analyze(context.Background(), application.AnalyzeRequest{Tasks: c.Analyzer.DemoTasks()})
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)
}

func TestNewContainer_RedisUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	c, err := NewContainer(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	assert.IsType(t, &cache.InMemoryCache{}, c.Cache)

	cfg.AppEnv = "production"
	_, err = NewContainer(context.Background(), cfg, quietLogger())
	assert.Error(t, err)
}

func TestNewContainer_CacheDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.CacheEnabled = false

	c, err := NewContainer(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.Equal(t, cache.NoopCache{}, c.Cache)
}

func TestNewContainer_InvalidUserID(t *testing.T) {
	cfg := testConfig()
	cfg.UserID = "nobody"

	_, err := NewContainer(context.Background(), cfg, quietLogger())
	assert.ErrorContains(t, err, "invalid user id")
}

func TestContainer_CloseShutsDownEngines(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(), quietLogger())
	require.NoError(t, err)

	_, err = c.Analyzer.Suggest(context.Background(), application.SuggestRequest{Tasks: c.Analyzer.DemoTasks()})
	require.NoError(t, err)

	c.Close()

	status, err := c.EngineRegistry.Status(builtin.DefaultRankingEngineID)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusShutdown, status)
}
