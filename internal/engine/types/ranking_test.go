package types

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/triage/internal/ranking/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankInput_DecodesRawTasks(t *testing.T) {
	var input RankInput
	err := json.Unmarshal([]byte(`{"tasks":[{"id":1,"title":"A","dependencies":[2]}],"strategy":"fastest_wins"}`), &input)
	require.NoError(t, err)

	require.Len(t, input.Tasks, 1)
	assert.Equal(t, "fastest_wins", input.Strategy)
	assert.Equal(t, "A", input.Tasks[0]["title"])
	assert.Equal(t, []any{float64(2)}, input.Tasks[0].Dependencies())
}

func TestSuggestInput_CountOmittedWhenZero(t *testing.T) {
	data, err := json.Marshal(SuggestInput{Tasks: []domain.RawTask{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[]}`, string(data))
}
