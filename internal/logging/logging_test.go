package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komapc/ido-esperanto-extractor/internal/config"
)

func TestNewBuildsConsoleLoggerByDefault(t *testing.T) {
	logger, err := New(config.LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Sync()
}

func TestNewBuildsJSONLoggerWhenConfigured(t *testing.T) {
	logger, err := New(config.LogConfig{Format: "json", Level: "debug"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer logger.Sync()
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "not-a-level"})
	assert.Error(t, err)
}
