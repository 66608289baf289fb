package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextWithRequestID(t *testing.T) {
	t.Run("round trips request ID", func(t *testing.T) {
		ctx := ContextWithRequestID(context.Background(), "req-abc-123")

		assert.Equal(t, "req-abc-123", GetRequestID(ctx))
	})

	t.Run("empty ID leaves context untouched", func(t *testing.T) {
		base := context.Background()
		ctx := ContextWithRequestID(base, "")

		assert.Equal(t, base, ctx)
		assert.Empty(t, GetRequestID(ctx))
	})

	t.Run("missing value yields empty string", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})

	t.Run("later value wins", func(t *testing.T) {
		ctx := ContextWithRequestID(context.Background(), "first")
		ctx = ContextWithRequestID(ctx, "second")

		assert.Equal(t, "second", GetRequestID(ctx))
	})
}
