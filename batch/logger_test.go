package batch_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/framebatch/batch"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    batch.LogLevel
		expected string
	}{
		{batch.LogLevelDebug, "DEBUG"},
		{batch.LogLevelInfo, "INFO"},
		{batch.LogLevelWarn, "WARN"},
		{batch.LogLevelError, "ERROR"},
		{batch.LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	logger := &batch.NoOpLogger{}

	assert.NotPanics(t, func() {
		logger.Log(batch.LogLevelInfo, "test")
		logger.Debug("debug %d", 1)
		logger.Info("info %s", "test")
		logger.Warn("warn %v", true)
		logger.Error("error %f", 3.14)
	})
}

func TestZerologLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       zerolog.Level
		logFunc     func(logger batch.Logger)
		contains    []string
		notContains []string
	}{
		{
			name:  "debug level allows all",
			level: zerolog.DebugLevel,
			logFunc: func(logger batch.Logger) {
				logger.Debug("debug message")
				logger.Info("info message")
				logger.Warn("warn message")
				logger.Error("error message")
			},
			contains: []string{"debug message", "info message", "warn message", "error message"},
		},
		{
			name:  "info level filters debug",
			level: zerolog.InfoLevel,
			logFunc: func(logger batch.Logger) {
				logger.Debug("debug message")
				logger.Info("info message")
			},
			contains:    []string{"info message"},
			notContains: []string{"debug message"},
		},
		{
			name:  "error level only shows errors",
			level: zerolog.ErrorLevel,
			logFunc: func(logger batch.Logger) {
				logger.Debug("debug")
				logger.Info("info")
				logger.Warn("warn")
				logger.Error("error message")
			},
			contains:    []string{"error message"},
			notContains: []string{`"level":"info"`, `"level":"warn"`},
		},
		{
			name:  "formatting works",
			level: zerolog.InfoLevel,
			logFunc: func(logger batch.Logger) {
				logger.Info("number: %d, string: %s", 42, "hello")
			},
			contains: []string{"number: 42, string: hello"},
		},
		{
			name:  "percent without args is left alone",
			level: zerolog.InfoLevel,
			logFunc: func(logger batch.Logger) {
				logger.Info("100% done")
			},
			contains: []string{"100% done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := batch.NewZerologLogger(zerolog.New(&buf).Level(tt.level))

			tt.logFunc(logger)

			output := buf.String()
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, notWant := range tt.notContains {
				assert.NotContains(t, output, notWant)
			}
		})
	}
}

func TestZerologLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := batch.NewZerologLogger(zerolog.New(&buf))

	logger.Warn("careful")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "framebatch", entry["component"])
	assert.Equal(t, "careful", entry["message"])
}
