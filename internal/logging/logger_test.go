package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	l, err := FromConfig("json", "info")
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = FromConfig("", "")
	require.NoError(t, err)
	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))

	_, err = FromConfig("xml", "info")
	assert.ErrorContains(t, err, "unknown log format")
}
