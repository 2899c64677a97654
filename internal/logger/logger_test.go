package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingenie-expense-tracker/internal/config"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{"DebugLevel", "debug", slog.LevelDebug},
		{"InfoLevel", "info", slog.LevelInfo},
		{"WarnLevel", "warn", slog.LevelWarn},
		{"WarningAlias", "WARNING", slog.LevelWarn},
		{"ErrorLevel", " error ", slog.LevelError},
		{"DefaultToInfo", "unknown", slog.LevelInfo},
		{"EmptyToInfo", "", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.logLevel))
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{
		Application: config.ApplicationConfig{Name: "fingenie", Env: "test"},
		Logging:     config.LoggingConfig{Level: "warn"},
	}

	logger := NewLogger(cfg)
	require.NotNil(t, logger)

	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug)

	logger.Debug("parsed", "amount", 150)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed", entry["msg"])
	assert.Equal(t, float64(150), entry["amount"])
	assert.Contains(t, entry, "source", "debug level adds source locations")
}

func TestNewCLILogger(t *testing.T) {
	var buf bytes.Buffer

	NewCLILogger(&buf, false).Info("hidden")
	assert.Empty(t, buf.String())

	NewCLILogger(&buf, true).Debug("shown")
	assert.True(t, strings.Contains(buf.String(), "msg=shown"))
}
