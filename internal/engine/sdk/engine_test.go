package sdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineType(t *testing.T) {
	assert.Equal(t, "ranking", EngineTypeRanking.String())
	assert.True(t, EngineTypeRanking.IsValid())
	assert.False(t, EngineType("scheduler").IsValid())
	assert.False(t, EngineType("").IsValid())
}

func TestEngineMetadata_Validate(t *testing.T) {
	tests := []struct {
		name    string
		meta    EngineMetadata
		wantErr string
	}{
		{"valid", EngineMetadata{ID: "triage.ranking.default", Name: "Default", Version: "1.0.0"}, ""},
		{"missing id", EngineMetadata{Name: "Default", Version: "1.0.0"}, "engine ID is required"},
		{"missing name", EngineMetadata{ID: "x", Version: "1.0.0"}, "engine name is required"},
		{"missing version", EngineMetadata{ID: "x", Name: "Default"}, "engine version is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestEngineMetadata_HasCapability(t *testing.T) {
	meta := EngineMetadata{Capabilities: []string{"rank_tasks", "detect_cycles"}}

	assert.True(t, meta.HasCapability("rank_tasks"))
	assert.False(t, meta.HasCapability("suggest_tasks"))
}

func TestHealthStatus(t *testing.T) {
	status := NewHealthStatus(true, "ok").WithDetails(map[string]any{"strategies": 4})

	assert.True(t, status.Healthy)
	assert.Equal(t, "ok", status.Message)
	assert.Equal(t, 4, status.Details["strategies"])
	assert.False(t, status.CheckedAt.IsZero())
}
