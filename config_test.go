package stt_streaming

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, "/ws/stt", cfg.Server.WSPath)
	assert.Equal(t, DefaultMaxSessions, cfg.Server.MaxSessions)
	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.Equal(t, 2, cfg.Audio.SampleWidth)
	assert.Equal(t, 1.5, cfg.Segmentation.ChunkLengthSeconds)
	assert.Equal(t, 0.1, cfg.Segmentation.ChunkOffsetSeconds)
	assert.Equal(t, 30.0, cfg.Recognition.TimeoutSeconds)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9000"
  max_sessions: 4
audio:
  sample_rate: 8000
segmentation:
  chunk_length_seconds: 2.0
recognition:
  providers: [deepgram, google]
  language: et
auth:
  jwt_secret: topsecret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Server.MaxSessions)
	assert.Equal(t, 8000, cfg.Audio.SampleRate)
	assert.Equal(t, 2.0, cfg.Segmentation.ChunkLengthSeconds)
	assert.Equal(t, []string{"deepgram", "google"}, cfg.Recognition.Providers)
	assert.Equal(t, "et", cfg.Recognition.Language)
	assert.Equal(t, "topsecret", cfg.Auth.JWTSecret)

	// Unset file values keep their defaults.
	assert.Equal(t, "/ws/stt", cfg.Server.WSPath)
	assert.Equal(t, 2, cfg.Audio.SampleWidth)
	assert.Equal(t, 0.1, cfg.Segmentation.ChunkOffsetSeconds)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_NoPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Addr, cfg.Server.Addr)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STT_ADDR", ":7070")
	t.Setenv("STT_MAX_SESSIONS", "3")
	t.Setenv("BUFFERING_CHUNK_LENGTH_SECONDS", "2.5")
	t.Setenv("BUFFERING_CHUNK_OFFSET_SECONDS", "0.2")
	t.Setenv("DEEPGRAM_API_KEY", "dg-key")
	t.Setenv("STT_LANGUAGE", "fi")
	t.Setenv("STT_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Server.MaxSessions)
	assert.Equal(t, 2.5, cfg.Segmentation.ChunkLengthSeconds)
	assert.Equal(t, 0.2, cfg.Segmentation.ChunkOffsetSeconds)
	assert.Equal(t, "dg-key", cfg.Recognition.DeepgramAPIKey)
	assert.Equal(t, "fi", cfg.Recognition.Language)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadConfig_InvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("STT_MAX_SESSIONS", "banana")
	t.Setenv("BUFFERING_CHUNK_LENGTH_SECONDS", "-3")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxSessions, cfg.Server.MaxSessions)
	assert.Equal(t, 1.5, cfg.Segmentation.ChunkLengthSeconds)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty ws path", func(c *Config) { c.Server.WSPath = "" }},
		{"zero max sessions", func(c *Config) { c.Server.MaxSessions = 0 }},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"zero sample width", func(c *Config) { c.Audio.SampleWidth = 0 }},
		{"zero chunk length", func(c *Config) { c.Segmentation.ChunkLengthSeconds = 0 }},
		{"negative chunk offset", func(c *Config) { c.Segmentation.ChunkOffsetSeconds = -0.1 }},
		{"zero recognition timeout", func(c *Config) { c.Recognition.TimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
