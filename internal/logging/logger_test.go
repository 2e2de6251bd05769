package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	require.NoError(t, err)

	reportLogger := Component(logger, "report")
	reportLogger.Info().Str("range", "THIS_MONTH").Msg("daily pnl built")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "report", line["component"])
	assert.Equal(t, "THIS_MONTH", line["range"])
	assert.Equal(t, "daily pnl built", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "json", &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_EmptyLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("", "json", &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "json", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", "console", &buf)
	require.NoError(t, err)

	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}
