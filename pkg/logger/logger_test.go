package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewAppliesLevel(t *testing.T) {
	l, err := New(Config{Level: "warn", Encoding: "console"})
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestInitReplacesGlobal(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug"}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init(DefaultConfig()))
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))
	assert.Error(t, Init(Config{Level: "nope"}))
}

func TestOrGlobal(t *testing.T) {
	nop := zap.NewNop()
	assert.Same(t, nop, OrGlobal(nop))
	assert.Same(t, Get(), OrGlobal(nil))
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := WithOperation(WithDocument(context.Background(), "quotes"), "decode")
	WithContext(ctx, base).Info("decoded")
	WithContext(context.Background(), base).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"document": "quotes", "operation": "decode"}, entries[0].ContextMap())
	assert.Empty(t, entries[1].ContextMap())

	assert.Same(t, Get(), WithContext(context.Background(), nil))
}
