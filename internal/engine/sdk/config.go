package sdk

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// ConfigSchema describes the configuration keys an engine accepts.
type ConfigSchema struct {
	// Title is a human-readable title for the configuration.
	Title string `json:"title"`

	// Description provides context about the configuration.
	Description string `json:"description,omitempty"`

	// Properties defines individual configuration fields.
	Properties map[string]PropertySchema `json:"properties"`

	// Required lists required property names.
	Required []string `json:"required,omitempty"`
}

// PropertySchema defines a single configuration property.
type PropertySchema struct {
	// Type is one of "string", "integer", "number", "boolean".
	Type string `json:"type"`

	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []any    `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
}

// NewConfigSchema creates an empty configuration schema.
func NewConfigSchema(title, description string) ConfigSchema {
	return ConfigSchema{
		Title:       title,
		Description: description,
		Properties:  make(map[string]PropertySchema),
	}
}

// AddProperty adds a property to the schema.
func (s *ConfigSchema) AddProperty(name string, prop PropertySchema) *ConfigSchema {
	if s.Properties == nil {
		s.Properties = make(map[string]PropertySchema)
	}
	s.Properties[name] = prop
	return s
}

// Validate checks a raw configuration map against the schema.
// Unknown keys are allowed.
func (s ConfigSchema) Validate(config map[string]any) error {
	for _, req := range s.Required {
		if _, ok := config[req]; !ok {
			return NewConfigValidationError(req, "is required", nil)
		}
	}

	for name, value := range config {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		if err := prop.Validate(name, value); err != nil {
			return err
		}
	}

	return nil
}

// Validate validates a value against this property schema.
func (p PropertySchema) Validate(name string, value any) error {
	if value == nil {
		return nil
	}

	switch p.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return NewConfigValidationError(name, "must be a string", value)
		}

	case "number", "integer":
		f, ok := toFloat(value)
		if !ok {
			return NewConfigValidationError(name, "must be a number", value)
		}
		if p.Type == "integer" && f != float64(int64(f)) {
			return NewConfigValidationError(name, "must be an integer", value)
		}
		if p.Minimum != nil && f < *p.Minimum {
			return NewConfigValidationError(name, fmt.Sprintf("must be >= %v", *p.Minimum), value)
		}
		if p.Maximum != nil && f > *p.Maximum {
			return NewConfigValidationError(name, fmt.Sprintf("must be <= %v", *p.Maximum), value)
		}

	case "boolean":
		if _, ok := value.(bool); !ok {
			return NewConfigValidationError(name, "must be a boolean", value)
		}
	}

	if len(p.Enum) > 0 && !slices.Contains(p.Enum, value) {
		return NewConfigValidationError(name, fmt.Sprintf("must be one of %v", p.Enum), value)
	}

	return nil
}

// EngineConfig holds configuration values for an engine.
type EngineConfig struct {
	// Raw contains the raw configuration map.
	Raw map[string]any `json:"raw"`

	// UserID is the user this configuration applies to.
	UserID uuid.UUID `json:"user_id"`

	// EngineID identifies which engine this config is for.
	EngineID string `json:"engine_id"`
}

// NewEngineConfig creates a new engine configuration.
func NewEngineConfig(engineID string, userID uuid.UUID, raw map[string]any) EngineConfig {
	if raw == nil {
		raw = make(map[string]any)
	}
	return EngineConfig{
		Raw:      raw,
		UserID:   userID,
		EngineID: engineID,
	}
}

// Has checks if a configuration key exists.
func (c EngineConfig) Has(key string) bool {
	_, ok := c.Raw[key]
	return ok
}

// GetString retrieves a string configuration value.
func (c EngineConfig) GetString(key string) string {
	if v, ok := c.Raw[key].(string); ok {
		return v
	}
	return ""
}

// GetInt retrieves an integer configuration value.
func (c EngineConfig) GetInt(key string) int {
	if f, ok := toFloat(c.Raw[key]); ok {
		return int(f)
	}
	return 0
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// FloatPtr returns a pointer to a float64 value.
// Helper for setting Minimum/Maximum in PropertySchema.
func FloatPtr(f float64) *float64 {
	return &f
}
