// Package sdk provides the core interfaces and types for triage's engine layer.
// An engine wraps a ranking implementation with identity, configuration and
// lifecycle management so that outer surfaces can run it uniformly.
package sdk

import (
	"context"
)

// EngineType identifies the type of engine.
type EngineType string

const (
	EngineTypeRanking EngineType = "ranking"
)

// String returns the string representation of the engine type.
func (t EngineType) String() string {
	return string(t)
}

// IsValid checks if the engine type is valid.
func (t EngineType) IsValid() bool {
	return t == EngineTypeRanking
}

// Engine is the base interface all engines must implement.
type Engine interface {
	// Metadata returns engine identification and capabilities.
	Metadata() EngineMetadata

	// Type returns the engine type.
	Type() EngineType

	// ConfigSchema describes the configuration keys the engine understands.
	ConfigSchema() ConfigSchema

	// Initialize sets up the engine with the provided configuration.
	Initialize(ctx context.Context, config EngineConfig) error

	// HealthCheck returns the current health status of the engine.
	HealthCheck(ctx context.Context) HealthStatus

	// Shutdown stops the engine and releases resources.
	Shutdown(ctx context.Context) error
}

// EngineFactory creates engine instances.
// Used by the registry to defer engine instantiation.
type EngineFactory func() (Engine, error)
