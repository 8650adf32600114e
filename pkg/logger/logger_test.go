package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "autoparts/internal/core/context"
)

func TestFromContext_AddsRequestFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext("trace-1", "req-1"))
	ctx = appctx.WithUser(ctx, &appctx.StaffUser{UserID: "clerk"})
	ctx = WithLogger(ctx, l)

	Warn(ctx, "stock clamped", "product_id", "p")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "trace-1", fields["trace_id"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "clerk", fields["user_id"])
		assert.Equal(t, "p", fields["product_id"])
	}
}
