package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/CombatTracker/state.json", cfg.State.Path)
	assert.True(t, cfg.State.Archive)
	assert.Equal(t, "/data/CombatTracker/archive", cfg.State.ArchiveDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
state:
  path: /tmp/fight.json
  archive: false
logging:
  level: DEBUG
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/fight.json", cfg.State.Path)
	assert.False(t, cfg.State.Archive)
	assert.Equal(t, "/tmp/archive", cfg.State.ArchiveDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COMBAT_TRACKER_STATE_PATH", "/srv/state.json")
	t.Setenv("COMBAT_TRACKER_STATE_ARCHIVE_DIR", "/srv/old")
	t.Setenv("COMBAT_TRACKER_LOGGING_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/state.json", cfg.State.Path)
	assert.Equal(t, "/srv/old", cfg.State.ArchiveDir)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("COMBAT_TRACKER_LOGGING_LEVEL", "loud")
	_, err := Load("")
	assert.ErrorContains(t, err, "logging.level")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
