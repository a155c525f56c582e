package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/config"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "sieve")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Recursive)
	assert.Nil(t, cfg.Defaults.Output)
	assert.Empty(t, cfg.Defaults.Exclude)
	assert.Nil(t, cfg.Theme.Dir)
}

func TestLoad_FullConfig(t *testing.T) {
	writeConfig(t, `
[defaults]
recursive = false
output = "json"
exclude = ["*.tmp", ".git/"]
include = ["keep.tmp"]
min_size = "1KiB"
max_size = "2GB"
ssh_port = 2222
ops_limit = 500
catalog = "/var/lib/sieve/runs.db"

[theme]
dir = "#89b4fa"
root = "#cba6f7"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Recursive)
	assert.False(t, *cfg.Defaults.Recursive)

	require.NotNil(t, cfg.Defaults.Output)
	assert.Equal(t, "json", *cfg.Defaults.Output)

	assert.Equal(t, []string{"*.tmp", ".git/"}, cfg.Defaults.Exclude)
	assert.Equal(t, []string{"keep.tmp"}, cfg.Defaults.Include)

	require.NotNil(t, cfg.Defaults.MinSize)
	assert.Equal(t, "1KiB", *cfg.Defaults.MinSize)
	require.NotNil(t, cfg.Defaults.MaxSize)
	assert.Equal(t, "2GB", *cfg.Defaults.MaxSize)

	require.NotNil(t, cfg.Defaults.SSHPort)
	assert.Equal(t, 2222, *cfg.Defaults.SSHPort)
	require.NotNil(t, cfg.Defaults.OpsLimit)
	assert.Equal(t, 500, *cfg.Defaults.OpsLimit)
	require.NotNil(t, cfg.Defaults.Catalog)
	assert.Equal(t, "/var/lib/sieve/runs.db", *cfg.Defaults.Catalog)

	require.NotNil(t, cfg.Theme.Dir)
	assert.Equal(t, "#89b4fa", *cfg.Theme.Dir)
	require.NotNil(t, cfg.Theme.Root)
	assert.Equal(t, "#cba6f7", *cfg.Theme.Root)

	// Unset fields should remain nil.
	assert.Nil(t, cfg.Theme.File)
	assert.Nil(t, cfg.Theme.Muted)
}

func TestLoad_PartialConfig(t *testing.T) {
	writeConfig(t, `
[theme]
muted = "#5a6278"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Nil(t, cfg.Defaults.Recursive)
	assert.Nil(t, cfg.Defaults.SSHPort)

	require.NotNil(t, cfg.Theme.Muted)
	assert.Equal(t, "#5a6278", *cfg.Theme.Muted)
}

func TestLoad_InvalidTOML(t *testing.T) {
	writeConfig(t, "invalid [[[")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	writeConfig(t, `
[defaults]
workers = 4
`)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults.workers")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"output", "[defaults]\noutput = \"xml\"", "defaults.output"},
		{"port", "[defaults]\nssh_port = 70000", "defaults.ssh_port"},
		{"ops", "[defaults]\nops_limit = -1", "defaults.ops_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/sieve/config.toml", config.Path())
}
