package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerLevels(t *testing.T) {
	assert.True(t, NewLogger(true).Core().Enabled(zapcore.DebugLevel))
	assert.False(t, NewLogger(false).Core().Enabled(zapcore.DebugLevel))
}

func TestZapLoggerCarriesFieldsAndNames(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var base Logger = &ZapLogger{logger: zap.New(core)}

	child := base.Named("entries").With(zap.Uint("user_id", 7))
	child.Info("created", zap.Uint("entry_id", 42))

	require.Equal(t, 1, logs.Len())
	line := logs.All()[0]
	assert.Equal(t, "entries", line.LoggerName)
	assert.Equal(t, "created", line.Message)

	fields := line.ContextMap()
	assert.EqualValues(t, 7, fields["user_id"])
	assert.EqualValues(t, 42, fields["entry_id"])
}

func TestNewNopDiscards(t *testing.T) {
	log := NewNop()
	log.Error("dropped", zap.String("k", "v"))
	assert.NoError(t, log.Sync())
}
