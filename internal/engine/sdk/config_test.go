package sdk

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() ConfigSchema {
	schema := NewConfigSchema("Ranking", "ranking options")
	schema.AddProperty("default_strategy", PropertySchema{
		Type: "string",
		Enum: []any{"smart_balance", "fastest_wins"},
	}).AddProperty("suggestion_count", PropertySchema{
		Type:    "integer",
		Minimum: FloatPtr(1),
		Maximum: FloatPtr(100),
	}).AddProperty("verbose", PropertySchema{Type: "boolean"})
	return schema
}

func TestConfigSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		wantErr bool
	}{
		{"empty", map[string]any{}, false},
		{"valid", map[string]any{"default_strategy": "fastest_wins", "suggestion_count": 3, "verbose": true}, false},
		{"json number", map[string]any{"suggestion_count": json.Number("5")}, false},
		{"unknown key", map[string]any{"colour": "blue"}, false},
		{"null value", map[string]any{"default_strategy": nil}, false},
		{"enum miss", map[string]any{"default_strategy": "random"}, true},
		{"wrong type", map[string]any{"default_strategy": 3}, true},
		{"not integer", map[string]any{"suggestion_count": 2.5}, true},
		{"below minimum", map[string]any{"suggestion_count": 0}, true},
		{"above maximum", map[string]any{"suggestion_count": 101}, true},
		{"not boolean", map[string]any{"verbose": "yes"}, true},
	}

	schema := testSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.config)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsConfigInvalid(err))
			var cfgErr *ConfigValidationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestConfigSchema_Required(t *testing.T) {
	schema := testSchema()
	schema.Required = []string{"suggestion_count"}

	err := schema.Validate(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"suggestion_count": is required`)
}

func TestEngineConfig(t *testing.T) {
	userID := uuid.New()
	cfg := NewEngineConfig("triage.ranking.default", userID, map[string]any{
		"default_strategy": "high_impact",
		"suggestion_count": float64(5),
	})

	assert.Equal(t, userID, cfg.UserID)
	assert.True(t, cfg.Has("default_strategy"))
	assert.False(t, cfg.Has("missing"))
	assert.Equal(t, "high_impact", cfg.GetString("default_strategy"))
	assert.Equal(t, "", cfg.GetString("suggestion_count"))
	assert.Equal(t, 5, cfg.GetInt("suggestion_count"))
	assert.Equal(t, 0, cfg.GetInt("default_strategy"))

	empty := NewEngineConfig("x", uuid.Nil, nil)
	assert.NotNil(t, empty.Raw)
}
