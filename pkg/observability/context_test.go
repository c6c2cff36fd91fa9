package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc")
	assert.Equal(t, "abc", CorrelationIDFromContext(ctx))

	generated := CorrelationIDFromContext(WithCorrelationID(context.Background(), ""))
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background(), "parent")

	assert.Equal(t, "parent", CorrelationIDFromContext(ctx))
	assert.NotEmpty(t, RequestIDFromContext(ctx))

	fresh := NewRequestContext(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(fresh))
	assert.NotEqual(t, RequestIDFromContext(ctx), RequestIDFromContext(fresh))
}
