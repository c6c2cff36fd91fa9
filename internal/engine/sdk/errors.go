package sdk

import (
	"errors"
	"fmt"
)

var (
	ErrEngineNotFound       = errors.New("engine not found")
	ErrEngineAlreadyExists  = errors.New("engine already exists")
	ErrEngineNotInitialized = errors.New("engine not initialized")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrEngineShutdown       = errors.New("engine has been shut down")

	// ErrCircuitOpen means the executor is refusing calls until the
	// breaker's open timeout elapses.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// EngineError wraps an error with engine context.
type EngineError struct {
	EngineID  string
	Operation string
	Err       error
}

func (e *EngineError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("engine %s: %s: %v", e.EngineID, e.Operation, e.Err)
	}
	return fmt.Sprintf("engine %s: %v", e.EngineID, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new engine error.
func NewEngineError(engineID, operation string, err error) *EngineError {
	return &EngineError{
		EngineID:  engineID,
		Operation: operation,
		Err:       err,
	}
}

// ConfigValidationError represents a configuration validation failure.
type ConfigValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ConfigValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("config validation failed for %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("config validation failed for %q: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigValidationError creates a new configuration validation error.
func NewConfigValidationError(field, message string, value any) *ConfigValidationError {
	return &ConfigValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// IsEngineNotFound checks if the error is ErrEngineNotFound.
func IsEngineNotFound(err error) bool {
	return errors.Is(err, ErrEngineNotFound)
}

// IsConfigInvalid checks if the error is a configuration validation error.
func IsConfigInvalid(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsCircuitOpen checks if the error is due to an open circuit breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
