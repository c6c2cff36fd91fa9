package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

func testContext(t *testing.T) *sdk.ExecutionContext {
	t.Helper()
	return sdk.NewExecutionContext(context.Background(), uuid.New(), DefaultRankingEngineID).
		WithClock(func() time.Time { return testNow })
}

func due(days int) string {
	return testNow.AddDate(0, 0, days).Format("2006-01-02")
}

func testBatch() []domain.RawTask {
	return []domain.RawTask{
		{"id": "quick", "due_date": due(10), "importance": 3, "estimated_hours": 1},
		{"id": "slow", "due_date": due(10), "importance": 10, "estimated_hours": 10},
		{"id": "urgent", "due_date": due(0), "importance": 5, "estimated_hours": 5},
	}
}

func initialized(t *testing.T, raw map[string]any) *DefaultRankingEngine {
	t.Helper()
	engine := NewDefaultRankingEngine()
	require.NoError(t, engine.Initialize(context.Background(), sdk.NewEngineConfig(DefaultRankingEngineID, uuid.New(), raw)))
	return engine
}

func TestDefaultRankingEngine_Metadata(t *testing.T) {
	engine := NewDefaultRankingEngine()
	meta := engine.Metadata()

	assert.Equal(t, "triage.ranking.default", meta.ID)
	assert.NoError(t, meta.Validate())
	assert.Contains(t, meta.Tags, "builtin")
	assert.True(t, meta.HasCapability(types.CapabilityRankTasks))
	assert.True(t, meta.HasCapability(types.CapabilityDetectCycles))
	assert.Equal(t, sdk.EngineTypeRanking, engine.Type())
}

func TestDefaultRankingEngine_ConfigSchema(t *testing.T) {
	schema := NewDefaultRankingEngine().ConfigSchema()

	require.Contains(t, schema.Properties, ConfigDefaultStrategy)
	require.Contains(t, schema.Properties, ConfigSuggestionCount)
	assert.Len(t, schema.Properties[ConfigDefaultStrategy].Enum, 4)
}

func TestDefaultRankingEngine_Initialize(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", map[string]any{ConfigDefaultStrategy: "high_impact", ConfigSuggestionCount: 5}, false},
		{"unknown strategy", map[string]any{ConfigDefaultStrategy: "random"}, true},
		{"count too large", map[string]any{ConfigSuggestionCount: 500}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewDefaultRankingEngine()
			err := engine.Initialize(context.Background(), sdk.NewEngineConfig(DefaultRankingEngineID, uuid.Nil, tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, sdk.IsConfigInvalid(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultRankingEngine_Rank(t *testing.T) {
	engine := initialized(t, nil)

	out, err := engine.Rank(testContext(t), types.RankInput{Tasks: testBatch(), Strategy: "fastest_wins"})
	require.NoError(t, err)

	assert.Equal(t, domain.FastestWins, out.Strategy)
	require.Len(t, out.Tasks, 3)
	assert.Equal(t, "quick", out.Tasks[0].ID)
}

func TestDefaultRankingEngine_RankStrategyResolution(t *testing.T) {
	engine := initialized(t, map[string]any{ConfigDefaultStrategy: "deadline_driven"})
	ctx := testContext(t)

	out, err := engine.Rank(ctx, types.RankInput{Tasks: testBatch()})
	require.NoError(t, err)
	assert.Equal(t, domain.DeadlineDriven, out.Strategy)

	out, err = engine.Rank(ctx, types.RankInput{Tasks: testBatch(), Strategy: "nonsense"})
	require.NoError(t, err)
	assert.Equal(t, domain.SmartBalance, out.Strategy)
}

func TestDefaultRankingEngine_Suggest(t *testing.T) {
	engine := initialized(t, map[string]any{ConfigSuggestionCount: 2})
	ctx := testContext(t)

	out, err := engine.Suggest(ctx, types.SuggestInput{Tasks: testBatch()})
	require.NoError(t, err)
	require.Len(t, out.Suggestions, 2)
	assert.Equal(t, "urgent", out.Suggestions[0].ID)
	assert.Equal(t, 1, out.Suggestions[0].Rank)

	out, err = engine.Suggest(ctx, types.SuggestInput{Tasks: testBatch(), Count: 1})
	require.NoError(t, err)
	assert.Len(t, out.Suggestions, 1)
}

func TestDefaultRankingEngine_DetectCycles(t *testing.T) {
	engine := initialized(t, nil)

	out, err := engine.DetectCycles(testContext(t), types.CycleInput{Tasks: []domain.RawTask{
		{"id": 1, "dependencies": []any{2}},
		{"id": 2, "dependencies": []any{1}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.CycleWarningPrefix + "1"}, out.Warnings)
}

func TestDefaultRankingEngine_CancelledContext(t *testing.T) {
	engine := initialized(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	execCtx := sdk.NewExecutionContext(ctx, uuid.Nil, DefaultRankingEngineID)

	_, err := engine.Rank(execCtx, types.RankInput{Tasks: testBatch()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultRankingEngine_Shutdown(t *testing.T) {
	engine := initialized(t, nil)
	assert.True(t, engine.HealthCheck(context.Background()).Healthy)

	require.NoError(t, engine.Shutdown(context.Background()))

	assert.False(t, engine.HealthCheck(context.Background()).Healthy)
	_, err := engine.Rank(testContext(t), types.RankInput{Tasks: testBatch()})
	assert.ErrorIs(t, err, sdk.ErrEngineShutdown)
	_, err = engine.Suggest(testContext(t), types.SuggestInput{Tasks: testBatch()})
	assert.ErrorIs(t, err, sdk.ErrEngineShutdown)
	_, err = engine.DetectCycles(testContext(t), types.CycleInput{})
	assert.ErrorIs(t, err, sdk.ErrEngineShutdown)
}
