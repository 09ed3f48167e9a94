package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artkeep/artkeep/internal/artwork"
	"github.com/artkeep/artkeep/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestPolicyMapping(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.DownloadConfig
		providerFlag string
		markOnly     bool
		want         artwork.Policy
	}{
		{
			name: "random by default",
			cfg:  config.DownloadConfig{Policy: "random"},
			want: artwork.Policy{Kind: artwork.PolicyRandom},
		},
		{
			name: "specific from config",
			cfg:  config.DownloadConfig{Policy: "specific", Provider: "tmdb", FallbackToAny: true},
			want: artwork.Policy{Kind: artwork.PolicySpecific, Provider: "tmdb", FallbackToAny: true},
		},
		{
			name:         "provider flag wins over config provider",
			cfg:          config.DownloadConfig{Policy: "specific", Provider: "tmdb"},
			providerFlag: "fanart",
			want:         artwork.Policy{Kind: artwork.PolicySpecific, Provider: "fanart"},
		},
		{
			name:         "provider flag upgrades random to specific",
			cfg:          config.DownloadConfig{Policy: "random"},
			providerFlag: "fanart",
			want:         artwork.Policy{Kind: artwork.PolicySpecific, Provider: "fanart"},
		},
		{
			name: "mark_only from config",
			cfg:  config.DownloadConfig{Policy: "mark_only"},
			want: artwork.Policy{Kind: artwork.PolicyMarkOnly},
		},
		{
			name:     "mark-only flag wins",
			cfg:      config.DownloadConfig{Policy: "random"},
			markOnly: true,
			want:     artwork.Policy{Kind: artwork.PolicyMarkOnly},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{cfg: &config.Config{Download: tt.cfg}}
			assert.Equal(t, tt.want, a.policy(tt.providerFlag, tt.markOnly))
		})
	}
}
