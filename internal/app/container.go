// Package app wires configuration, engines, caches and the analyzer into
// one container shared by the CLI, HTTP and MCP adapters.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/builtin"
	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/engine/runtime"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/internal/ranking/infrastructure/cache"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/felixgeelhaar/triage/pkg/observability"
	"github.com/google/uuid"
)

// healthCheckTimeout bounds each component check behind /health.
const healthCheckTimeout = 2 * time.Second

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics

	EngineRegistry *registry.Registry
	EngineMetrics  *runtime.MetricsCollector
	Executor       *runtime.Executor

	Cache      cache.ResultCache
	RedisCache *cache.RedisCache

	Analyzer *application.Analyzer
	Health   *observability.HealthRegistry
}

// NewContainer builds the container. Redis is optional: outside
// production an unreachable server falls back to the in-process cache.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", cfg.UserID, err)
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(healthCheckTimeout),
	}

	if err := c.initCache(ctx); err != nil {
		return nil, err
	}

	c.EngineRegistry = registry.NewRegistry(logger)
	if err := c.EngineRegistry.RegisterFactory(builtin.DefaultRankingEngineID, rankingEngineFactory(ctx, cfg, userID)); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to register ranking engine: %w", err)
	}

	c.EngineMetrics = runtime.NewMetricsCollector()
	c.Executor = runtime.NewExecutor(c.EngineRegistry, c.EngineMetrics, logger, executorConfig(cfg))

	c.Analyzer = application.NewAnalyzer(c.Executor, c.Cache, application.Config{
		EngineID:        builtin.DefaultRankingEngineID,
		UserID:          userID,
		DefaultStrategy: cfg.DefaultStrategy,
		SuggestionCount: cfg.SuggestionCount,
		MaxBatchSize:    cfg.MaxBatchSize,
	}, logger, c.Metrics)

	c.Health.Register("engine", observability.ProbeHealthChecker(func(ctx context.Context) (bool, string, map[string]any) {
		status, err := c.Executor.HealthCheck(ctx, builtin.DefaultRankingEngineID)
		if err != nil {
			return false, err.Error(), nil
		}
		return status.Healthy, status.Message, status.Details
	}))
	if c.RedisCache != nil {
		c.Health.Register("cache", observability.CacheHealthChecker(c.RedisCache.Ping))
	}

	return c, nil
}

func (c *Container) initCache(ctx context.Context) error {
	cfg := c.Config

	switch {
	case !cfg.CacheEnabled:
		c.Cache = cache.NoopCache{}
		c.Logger.Info("result cache disabled")
	case cfg.RedisURL != "":
		redisCache, err := cache.NewRedisCacheFromURL(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			if cfg.IsProduction() {
				return err
			}
			c.Logger.Warn("Redis not available, using in-memory result cache", "error", err)
			c.Cache = cache.NewInMemoryCache(cfg.CacheTTL)
			return nil
		}
		c.RedisCache = redisCache
		c.Cache = redisCache
		c.Logger.Info("connected to Redis")
	default:
		c.Cache = cache.NewInMemoryCache(cfg.CacheTTL)
	}
	return nil
}

func rankingEngineFactory(ctx context.Context, cfg *config.Config, userID uuid.UUID) sdk.EngineFactory {
	return func() (sdk.Engine, error) {
		raw := map[string]any{builtin.ConfigSuggestionCount: cfg.SuggestionCount}
		if cfg.DefaultStrategy != "" {
			raw[builtin.ConfigDefaultStrategy] = cfg.DefaultStrategy
		}

		engine := builtin.NewDefaultRankingEngine()
		if err := engine.Initialize(ctx, sdk.NewEngineConfig(builtin.DefaultRankingEngineID, userID, raw)); err != nil {
			return nil, err
		}
		return engine, nil
	}
}

func executorConfig(cfg *config.Config) runtime.ExecutorConfig {
	ec := runtime.DefaultExecutorConfig()
	ec.CircuitBreakerEnabled = cfg.BreakerEnabled
	ec.FailureThreshold = uint32(cfg.BreakerFailureThreshold)
	ec.MaxRequests = uint32(cfg.BreakerHalfOpenRequests)
	ec.Timeout = cfg.BreakerOpenTimeout
	ec.DefaultTimeout = cfg.EngineTimeout
	return ec
}

// Close shuts down engines and releases the Redis connection.
func (c *Container) Close() {
	if c.EngineRegistry != nil {
		if err := c.EngineRegistry.ShutdownAll(context.Background()); err != nil {
			c.Logger.Warn("error shutting down engines", "error", err)
		}
	}

	if c.RedisCache != nil {
		if err := c.RedisCache.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}
}
