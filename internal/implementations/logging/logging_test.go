package logging

import (
	"context"
	"happystack/internal/core/domain/logging"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesBecomeFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := newZapLogger(zap.New(core))

	log.Warning(context.Background(), "Something happened.", logging.Entry("userID", "42"))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "Something happened.", entries[0].Message)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "42", entries[0].ContextMap()["userID"])
}

func TestRequestIDAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := newZapLogger(zap.New(core))
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")

	log.Info(ctx, "Handled.")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "req-1", entries[0].ContextMap()["requestID"])
}
