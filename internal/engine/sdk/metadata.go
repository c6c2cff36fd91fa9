package sdk

import (
	"fmt"
	"slices"
	"time"
)

// EngineMetadata identifies an engine and lists what it can do.
type EngineMetadata struct {
	// ID is a unique identifier in reverse-domain notation (e.g., "triage.ranking.default").
	ID string `json:"id"`

	// Name is a human-readable name for the engine.
	Name string `json:"name"`

	// Version is the semantic version of the engine.
	Version string `json:"version"`

	// Description is a brief description of what the engine does.
	Description string `json:"description"`

	// Tags are free-form labels shown in listings.
	Tags []string `json:"tags"`

	// Capabilities lists the operations the engine supports,
	// e.g. ["rank_tasks", "suggest_tasks", "detect_cycles"].
	Capabilities []string `json:"capabilities"`
}

// Validate checks if the metadata is valid.
func (m EngineMetadata) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("engine ID is required")
	}
	if m.Name == "" {
		return fmt.Errorf("engine name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("engine version is required")
	}
	return nil
}

// HasCapability checks if the engine has a specific capability.
func (m EngineMetadata) HasCapability(capability string) bool {
	return slices.Contains(m.Capabilities, capability)
}

// HealthStatus represents the current health of an engine.
type HealthStatus struct {
	Healthy   bool           `json:"healthy"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CheckedAt time.Time      `json:"checked_at"`
}

// NewHealthStatus creates a status with the given message.
func NewHealthStatus(healthy bool, message string) HealthStatus {
	return HealthStatus{
		Healthy:   healthy,
		Message:   message,
		CheckedAt: time.Now(),
	}
}

// WithDetails adds details to the health status.
func (h HealthStatus) WithDetails(details map[string]any) HealthStatus {
	h.Details = details
	return h
}
