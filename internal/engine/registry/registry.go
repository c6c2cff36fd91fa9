// Package registry provides engine registration, lookup, and lifecycle management.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
)

// Registry manages engine registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]EngineEntry
	logger  *slog.Logger
}

// EngineEntry holds a registered engine and its state.
type EngineEntry struct {
	// ID is the registry key.
	ID string

	// Engine is the engine instance (nil until loaded).
	Engine sdk.Engine

	// Factory creates the engine on first use.
	Factory sdk.EngineFactory

	// Type is known up front for built-ins and after loading for factories.
	Type sdk.EngineType

	// Status is the current engine status.
	Status EngineStatus

	// Error contains any error from the last load attempt.
	Error error

	// Builtin indicates if this is a built-in engine.
	Builtin bool
}

// EngineStatus represents the current state of an engine.
type EngineStatus string

const (
	// StatusUnloaded means the engine is registered but not loaded.
	StatusUnloaded EngineStatus = "unloaded"

	// StatusReady means the engine is loaded and ready.
	StatusReady EngineStatus = "ready"

	// StatusFailed means the engine failed to load or initialize.
	StatusFailed EngineStatus = "failed"

	// StatusShutdown means the engine has been shut down.
	StatusShutdown EngineStatus = "shutdown"
)

// NewRegistry creates a new engine registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		engines: make(map[string]EngineEntry),
		logger:  logger,
	}
}

// RegisterBuiltin registers a built-in engine.
func (r *Registry) RegisterBuiltin(engine sdk.Engine) error {
	metadata := engine.Metadata()
	if metadata.ID == "" {
		return fmt.Errorf("engine ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[metadata.ID]; exists {
		return sdk.ErrEngineAlreadyExists
	}

	r.engines[metadata.ID] = EngineEntry{
		ID:      metadata.ID,
		Engine:  engine,
		Type:    engine.Type(),
		Status:  StatusReady,
		Builtin: true,
	}

	r.logger.Info("registered built-in engine",
		"engine_id", metadata.ID,
		"type", engine.Type(),
	)

	return nil
}

// RegisterFactory registers an engine factory for lazy loading.
func (r *Registry) RegisterFactory(id string, factory sdk.EngineFactory) error {
	if id == "" {
		return fmt.Errorf("engine ID is required")
	}
	if factory == nil {
		return fmt.Errorf("engine %s: factory is required", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[id]; exists {
		return sdk.ErrEngineAlreadyExists
	}

	r.engines[id] = EngineEntry{
		ID:      id,
		Factory: factory,
		Status:  StatusUnloaded,
	}

	r.logger.Info("registered engine factory", "engine_id", id)

	return nil
}

// Get returns an engine by ID, loading it if necessary.
func (r *Registry) Get(ctx context.Context, id string) (sdk.Engine, error) {
	r.mu.RLock()
	entry, exists := r.engines[id]
	r.mu.RUnlock()

	if !exists {
		return nil, sdk.ErrEngineNotFound
	}

	switch entry.Status {
	case StatusReady:
		return entry.Engine, nil
	case StatusFailed:
		return nil, entry.Error
	case StatusShutdown:
		return nil, sdk.NewEngineError(id, "get", sdk.ErrEngineShutdown)
	}

	return r.loadEngine(id)
}

// loadEngine runs the factory once; concurrent callers wait on the write lock
// and see the loaded entry.
func (r *Registry) loadEngine(id string) (sdk.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.engines[id]
	if entry.Status == StatusReady {
		return entry.Engine, nil
	}
	if entry.Status != StatusUnloaded || entry.Factory == nil {
		return nil, fmt.Errorf("engine %s is in unexpected state: %s", id, entry.Status)
	}

	r.logger.Info("loading engine", "engine_id", id)

	engine, err := entry.Factory()
	if err != nil {
		entry.Status = StatusFailed
		entry.Error = fmt.Errorf("failed to create engine %s: %w", id, err)
		r.engines[id] = entry
		return nil, entry.Error
	}

	entry.Engine = engine
	entry.Type = engine.Type()
	entry.Status = StatusReady
	entry.Error = nil
	r.engines[id] = entry

	r.logger.Info("engine loaded",
		"engine_id", id,
		"type", engine.Type(),
	)

	return engine, nil
}

// Unregister removes an engine from the registry.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.engines[id]
	if !exists {
		return sdk.ErrEngineNotFound
	}

	if entry.Builtin {
		return fmt.Errorf("cannot unregister built-in engine %s", id)
	}

	delete(r.engines, id)
	r.logger.Info("unregistered engine", "engine_id", id)

	return nil
}

// List returns all registered engines ordered by ID.
func (r *Registry) List() []EngineEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]EngineEntry, 0, len(r.engines))
	for _, entry := range r.engines {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b EngineEntry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return entries
}

// ListByType returns all engines of a specific type.
// Factory engines that have not been loaded yet are not included.
func (r *Registry) ListByType(engineType sdk.EngineType) []EngineEntry {
	var entries []EngineEntry
	for _, entry := range r.List() {
		if entry.Type == engineType {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Has checks if an engine is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.engines[id]
	return exists
}

// Status returns the status of an engine.
func (r *Registry) Status(id string) (EngineStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.engines[id]
	if !exists {
		return "", sdk.ErrEngineNotFound
	}
	return entry.Status, nil
}

// ShutdownAll shuts down all loaded engines.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, entry := range r.engines {
		if entry.Engine == nil || entry.Status != StatusReady {
			continue
		}
		r.logger.Info("shutting down engine", "engine_id", id)
		if err := entry.Engine.Shutdown(ctx); err != nil {
			r.logger.Error("failed to shutdown engine",
				"engine_id", id,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("engine %s: %w", id, err))
		}
		entry.Status = StatusShutdown
		r.engines[id] = entry
	}

	return errors.Join(errs...)
}

// Count returns the number of registered engines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// GetMetadata returns metadata for a loaded engine.
func (r *Registry) GetMetadata(id string) (*sdk.EngineMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.engines[id]
	if !exists {
		return nil, sdk.ErrEngineNotFound
	}
	if entry.Engine == nil {
		return nil, fmt.Errorf("engine %s: %w", id, sdk.ErrEngineNotInitialized)
	}

	metadata := entry.Engine.Metadata()
	return &metadata, nil
}
