package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	t.Setenv("ARTKEEP_CONFIG", path)

	got, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestDiscoverEnvVarMissingFile(t *testing.T) {
	t.Setenv("ARTKEEP_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	_, err := Discover()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARTKEEP_CONFIG")
}

func TestDefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "artkeep", "config.toml"), DefaultPath())
}
