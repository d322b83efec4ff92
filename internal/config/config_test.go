// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, filepath.Join("data", "recordings"), cfg.RecordingsDir)
	assert.Equal(t, filepath.Join("data", "channels.json"), cfg.ChannelsFile)
	assert.Equal(t, 30*time.Second, cfg.TickInterval)
	assert.Equal(t, 10*time.Second, cfg.StopGrace)
	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, "Europe/London", cfg.Location().String())
	assert.True(t, cfg.WatchLineup)
}

func TestWatchLineupOverrides(t *testing.T) {
	t.Setenv("PVRD_WATCH_LINEUP", "false")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.WatchLineup)
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9000\"\ntick_interval: 10s\n"), 0o600))

	t.Setenv("PVRD_LISTEN", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	// ENV beats file, file beats default.
	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, 10*time.Second, cfg.TickInterval)
}

func TestLoadRejectsInvalidTimezone(t *testing.T) {
	t.Setenv("PVRD_TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestLoadRejectsNonPositiveTick(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_interval: -5s\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestParseHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("PVRD_TEST_INT", "not-a-number")
	t.Setenv("PVRD_TEST_DUR", "sometime")
	t.Setenv("PVRD_TEST_BOOL", "perhaps")

	assert.Equal(t, 42, ParseInt("PVRD_TEST_INT", 42))
	assert.Equal(t, time.Minute, ParseDuration("PVRD_TEST_DUR", time.Minute))
	assert.True(t, ParseBool("PVRD_TEST_BOOL", true))
}
