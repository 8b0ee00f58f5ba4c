package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BUDGETCSV_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.Database.Path, "budgetcsv.db")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Export.Account)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[database]
path = "/tmp/custom.db"

[log]
level = "debug"

[export]
account = "desjardins-creditcard"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("BUDGETCSV_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "desjardins-creditcard", cfg.Export.Account)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BUDGETCSV_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("BUDGETCSV_LOG_LEVEL", "trace")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.Log.Level)
}
