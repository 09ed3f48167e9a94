package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "assetfolders", cfg.Store.Layout)
	assert.Equal(t, "random", cfg.Download.Policy)
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.toml")

	cfg := &Config{
		Plex:  PlexConfig{URL: "http://plex.local:32400", Token: "tok"},
		Store: StoreConfig{BaseDir: "/data/assets", Layout: "flat"},
	}
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "flat", loaded.Store.Layout)
	assert.Equal(t, "tok", loaded.Plex.Token)
}
