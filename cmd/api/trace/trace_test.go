package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanSequence(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req-1", 0)
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "0", CurrentSpanID(ctx))

	reqID, span := NextSpanID(ctx)
	assert.Equal(t, "req-1", reqID)
	assert.Equal(t, "1", span)

	_, span = NextSpanID(ctx)
	assert.Equal(t, "2", span)
	assert.Equal(t, "2", CurrentSpanID(ctx))
}

func TestNextSpanIDWithoutMiddleware(t *testing.T) {
	reqID, span := NextSpanID(context.Background())
	assert.Len(t, reqID, 32)
	assert.Equal(t, "1", span)
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
