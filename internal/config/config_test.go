package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0o600))
}

func TestInitWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "taskdeck")

	cfg, err := Init(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ConfigFileName))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.API, loaded.API)
	assert.Equal(t, CurrentVersion, loaded.Version)
	assert.Equal(t, DefaultAPIURL, loaded.API.URL)
	assert.Equal(t, []string{"*"}, loaded.Server.CORSOrigins)
	assert.True(t, loaded.Log.Activity)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = LoadFile(t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"relative url", "version: 2\napi:\n  url: localhost:5000\nserver:\n  addr: :5000\n  database: tasks.db\n"},
		{"bad timeout", "version: 2\napi:\n  url: http://x\n  timeout: soon\nserver:\n  addr: :5000\n  database: tasks.db\n"},
		{"newer version", "version: 9\napi:\n  url: http://x\n"},
		{"zero version", "api:\n  url: http://x\n"},
		{"literal date format", "version: 2\napi:\n  url: http://x\ntui:\n  date_format: today\nserver:\n  addr: :5000\n  database: tasks.db\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)
			_, err := Load(dir)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "version: 1\napi:\n  url: http://tasks.internal/api\n  timeout: 5s\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultDatabase, cfg.Server.Database)
	assert.Equal(t, DefaultLogFile, cfg.Log.File)
	assert.Equal(t, "http://tasks.internal/api", cfg.API.URL)

	// The upgrade is persisted.
	raw, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, raw.Version)
}

func TestApplyEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Init(dir)
	require.NoError(t, err)

	t.Setenv("TASKDECK_API_URL", "https://tasks.example.com/api")
	t.Setenv("TASKDECK_API_TIMEOUT", "3s")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com/api", cfg.API.URL)
	assert.Equal(t, "3s", cfg.API.Timeout)

	// LoadFile sees what is on disk only.
	raw, err := LoadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, raw.API.URL)
}

func TestPathsResolveAgainstDir(t *testing.T) {
	cfg := NewDefault()
	cfg.SetDir("/etc/taskdeck")

	assert.Equal(t, "/etc/taskdeck/config.yml", cfg.ConfigPath())
	assert.Equal(t, "/etc/taskdeck/taskdeck.log", cfg.LogPath())
	assert.Equal(t, "/etc/taskdeck/tasks.db", cfg.DatabasePath())

	cfg.Log.File = ""
	assert.Empty(t, cfg.LogPath())

	cfg.Server.Database = ":memory:"
	assert.Equal(t, ":memory:", cfg.DatabasePath())

	cfg.Log.File = "/var/log/taskdeck.log"
	assert.Equal(t, "/var/log/taskdeck.log", cfg.LogPath())
}

func TestAPITimeoutDuration(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, "10s", cfg.API.Timeout)
	assert.Equal(t, int64(10), int64(cfg.APITimeoutDuration().Seconds()))

	cfg.API.Timeout = ""
	assert.Zero(t, cfg.APITimeoutDuration())

	cfg.API.Timeout = "bogus"
	assert.Zero(t, cfg.APITimeoutDuration())
}

func TestDateFormatFallback(t *testing.T) {
	cfg := NewDefault()
	cfg.TUI.DateFormat = ""
	assert.Equal(t, DefaultDateFormat, cfg.DateFormat())

	cfg.TUI.DateFormat = "02 Jan"
	assert.Equal(t, "02 Jan", cfg.DateFormat())
}
