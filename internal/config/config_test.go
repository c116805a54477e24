package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestNew_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetEnv(t, "WORKBOARD_DB", "WORKBOARD_ADDR", "REDIS_URL", "REDIS_CHANNEL", "FEED_INTERVAL", "SEED_DEMO", "DEBUG", "LOG_LEVEL")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".workboard", "workboard.db"), cfg.DBPath)
	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, 12*time.Second, cfg.Feed.Interval)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "workboard:events", cfg.Redis.Channel)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("WORKBOARD_DB", "/tmp/board.db")
	t.Setenv("WORKBOARD_ADDR", ":8080")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FEED_INTERVAL", "500ms")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("DEBUG", "true")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/board.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Feed.Interval)
	assert.True(t, cfg.SeedDemo)
	assert.True(t, cfg.Debug)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestNew_LogLevel(t *testing.T) {
	unsetEnv(t, "DEBUG")
	t.Setenv("LOG_LEVEL", "info")
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)

	t.Setenv("LOG_LEVEL", "loud")
	_, err = New()
	assert.Error(t, err)
}

func TestNew_RejectsBadDuration(t *testing.T) {
	t.Setenv("FEED_INTERVAL", "soon")
	_, err := New()
	assert.Error(t, err)

	t.Setenv("FEED_INTERVAL", "-1s")
	_, err = New()
	assert.Error(t, err)
}
