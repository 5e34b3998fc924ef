package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"mizan/internal/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.Config{LogLevel: "warn", LogFormat: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = newLogger(config.Config{LogLevel: "debug", LogFormat: ""})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerRejectsBadSettings(t *testing.T) {
	_, err := newLogger(config.Config{LogLevel: "info", LogFormat: "xml"})
	assert.Error(t, err)

	_, err = newLogger(config.Config{LogLevel: "chatty", LogFormat: "json"})
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"fetch", "cleanup", "export", "runs"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, cleanupCmd.Flags().Lookup("no-db"))
}
