package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithContext(t *testing.T) {
	logger, _ := newObservedLogger()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_NoLogger(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	// No-op logger must not panic
	l.Info("ignored")
}

func TestWithRequestID(t *testing.T) {
	logger, logs := newObservedLogger()

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")
	enriched.Info("hello")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithOrgID(t *testing.T) {
	logger, logs := newObservedLogger()

	ctx, enriched := WithOrgID(context.Background(), logger, "org-42")
	enriched.Info("hello")

	assert.Equal(t, "org-42", GetOrgID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "org-42", logs.All()[0].ContextMap()["org_id"])
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
	assert.Equal(t, "", GetOrgID(context.Background()))
	assert.Equal(t, "", GetActorID(context.Background()))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	logger, _ := newObservedLogger()
	// Without an active span the logger passes through unchanged.
	assert.Equal(t, logger, WithTraceContext(context.Background(), logger))
}

func TestContextLogger(t *testing.T) {
	logger, logs := newObservedLogger()
	ctx := WithContext(context.Background(), logger)
	ctx, _ = WithRequestID(ctx, logger, "req-9")

	L(ctx).Info("operation done", zap.String("bill", "BILL-001"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "operation done", entry.Message)
	assert.Equal(t, "req-9", entry.ContextMap()["request_id"])
	assert.Equal(t, "BILL-001", entry.ContextMap()["bill"])
}

func TestContextLogger_WithFields(t *testing.T) {
	logger, logs := newObservedLogger()
	cl := WithLogger(context.Background(), logger).With(zap.String("component", "reconciliation"))

	cl.Warn("balance drift")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "reconciliation", logs.All()[0].ContextMap()["component"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	// Must not panic with a nil underlying logger.
	cl.Info("ignored")
	cl.Error("ignored")
}
