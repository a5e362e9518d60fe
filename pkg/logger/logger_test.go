package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "inventra/internal/core/context"
)

func TestWithContext_AddsTraceAndBranch(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t1", RequestID: "r1"})
	ctx = appctx.WithUser(ctx, &appctx.UserContext{UserID: "u1", ActiveBranchID: "b1"})
	ctx = WithLogger(ctx, l)

	Info(ctx, "stock checked", "product_id", "p1")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "t1", fields["trace_id"])
		assert.Equal(t, "r1", fields["request_id"])
		assert.Equal(t, "u1", fields["user_id"])
		assert.Equal(t, "b1", fields["branch_id"])
		assert.Equal(t, "p1", fields["product_id"])
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}
