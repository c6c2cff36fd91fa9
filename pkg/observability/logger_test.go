package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger_Formats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatText, Output: &buf})

		logger.Info("ranked batch", "tasks", 3)

		assert.Contains(t, buf.String(), "ranked batch")
		assert.Contains(t, buf.String(), "tasks=3")
	})

	t.Run("json with service attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:          LogLevelInfo,
			Format:         LogFormatJSON,
			Output:         &buf,
			ServiceName:    "triage",
			ServiceVersion: "1.2.0",
		})

		logger.Info("ranked batch", "strategy", "smart_balance")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "ranked batch", entries[0]["msg"])
		assert.Equal(t, "smart_balance", entries[0]["strategy"])
		assert.Equal(t, "triage", entries[0]["service"])
		assert.Equal(t, "1.2.0", entries[0]["version"])
	})
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelWarn, Format: LogFormatText, Output: &buf})

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.NotContains(t, buf.String(), "info line")
	assert.Contains(t, buf.String(), "warn line")
}

func TestNewLogger_ContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf})

	ctx := WithRequestID(WithCorrelationID(context.Background(), "corr-1"), "req-1")
	logger.With("component", "analyzer").InfoContext(ctx, "analysis completed")
	logger.Info("no context ids")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "corr-1", entries[0][CorrelationIDKey])
	assert.Equal(t, "req-1", entries[0][RequestIDKey])
	assert.Equal(t, "analyzer", entries[0]["component"])
	assert.NotContains(t, entries[1], CorrelationIDKey)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(LogLevelDebug))
	assert.Equal(t, slog.LevelInfo, ParseLevel(LogLevelInfo))
	assert.Equal(t, slog.LevelWarn, ParseLevel(LogLevelWarn))
	assert.Equal(t, slog.LevelError, ParseLevel(LogLevelError))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLogConfigs(t *testing.T) {
	def := DefaultLogConfig()
	assert.Equal(t, LogFormatText, def.Format)
	assert.Equal(t, "triage", def.ServiceName)

	prod := ProductionLogConfig()
	assert.Equal(t, LogFormatJSON, prod.Format)
	assert.True(t, prod.AddSource)
}

func TestLoggerFromEnv(t *testing.T) {
	t.Setenv(EnvEnv, "production")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvVersion, "9.9.9")

	logger := LoggerFromEnv()

	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
