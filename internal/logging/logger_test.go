package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesToRequestedFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "synapse.log")
	logger, err := NewLogger(Config{Level: INFO, OutputFile: logFile, JSONFormat: true})
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("test message", "key", "value")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test message")
}

func TestNewLogger_RotatesWhenOverMaxSize(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "synapse.log")
	require.NoError(t, os.WriteFile(logFile, []byte("already large content"), 0o644))

	logger, err := NewLogger(Config{Level: INFO, OutputFile: logFile, MaxSize: 1, MaxBackups: 3})
	require.NoError(t, err)
	defer logger.Close()

	_, statErr := os.Stat(logFile + ".1")
	assert.NoError(t, statErr, "oversized existing file should be rotated to .1 before the new file is opened")
}

func TestDebugConfig_IsStdoutOnly(t *testing.T) {
	cfg := DebugConfig()
	assert.Empty(t, cfg.OutputFile)
	assert.Equal(t, DEBUG, cfg.Level)
}

func TestDefaultConfig_ProductionModeUsesJSON(t *testing.T) {
	cfg := DefaultConfig(false)
	assert.True(t, cfg.JSONFormat)
	assert.Equal(t, INFO, cfg.Level)

	debugCfg := DefaultConfig(true)
	assert.False(t, debugCfg.JSONFormat)
	assert.Equal(t, DEBUG, debugCfg.Level)
}

func TestWith_AddsContextWithoutMutatingOriginal(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "synapse.log")
	logger, err := NewLogger(Config{Level: INFO, OutputFile: logFile})
	require.NoError(t, err)
	defer logger.Close()

	child := logger.With("component", "pipeline")
	child.Info("from child")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from child")
	assert.Contains(t, string(data), "component")
}
