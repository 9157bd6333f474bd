package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	err := Initialize("loud", false)
	assert.Error(t, err)
}

func TestInitializeAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			require.NoError(t, Initialize(level, true))
		})
	}
}

func TestHelpersFormatMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))

	Debug("query %s=%s", "fid", "abc")
	Info("listening on %s", ":8080")
	Warn("bad state %q", "{")
	Error("download failed: %v", "boom")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "query fid=abc", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, `bad state "{"`, entries[2].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
