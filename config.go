package stt_streaming

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/voxpipe/stt_streaming/session"
	"github.com/voxpipe/stt_streaming/vad"
)

// Config is the complete service configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Audio        AudioConfig        `yaml:"audio"`
	Segmentation SegmentationConfig `yaml:"segmentation"`
	VAD          VADConfig          `yaml:"vad"`
	Recognition  RecognitionConfig  `yaml:"recognition"`
	Auth         AuthConfig         `yaml:"auth"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	WSPath      string `yaml:"ws_path"`
	MaxSessions int    `yaml:"max_sessions"`
}

// AudioConfig describes the inbound PCM format, fixed per deployment.
type AudioConfig struct {
	SampleRate  int `yaml:"sample_rate"`
	SampleWidth int `yaml:"sample_width"`
}

// SegmentationConfig carries the default chunking parameters; sessions may
// override them per connection via config messages.
type SegmentationConfig struct {
	ChunkLengthSeconds float64 `yaml:"chunk_length_seconds"`
	ChunkOffsetSeconds float64 `yaml:"chunk_offset_seconds"`
}

// VADConfig tunes the activity detector.
type VADConfig struct {
	MinDurationSeconds float64 `yaml:"min_duration_seconds"`
}

// RecognitionConfig selects and tunes the recognition providers.
type RecognitionConfig struct {
	// Providers are tried in order; more than one enables failover.
	// Supported: "deepgram", "google".
	Providers      []string `yaml:"providers"`
	Language       string   `yaml:"language"`
	TimeoutSeconds float64  `yaml:"timeout_seconds"`
	DeepgramAPIKey string   `yaml:"deepgram_api_key"`
}

// AuthConfig controls handshake token validation. An empty secret accepts
// any non-empty token.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// DefaultConfig returns the shipped deployment profile.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8081",
			WSPath:      "/ws/stt",
			MaxSessions: DefaultMaxSessions,
		},
		Audio: AudioConfig{
			SampleRate:  16000,
			SampleWidth: 2,
		},
		Segmentation: SegmentationConfig{
			ChunkLengthSeconds: session.DefaultChunkLengthSeconds,
			ChunkOffsetSeconds: session.DefaultChunkOffsetSeconds,
		},
		VAD: VADConfig{
			MinDurationSeconds: vad.DefaultMinDuration,
		},
		Recognition: RecognitionConfig{
			TimeoutSeconds: 30,
		},
	}
}

// LoadConfig loads configuration from an optional YAML file and applies
// environment overrides on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("STT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STT_MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.MaxSessions = n
		}
	}
	if v := os.Getenv("BUFFERING_CHUNK_LENGTH_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.Segmentation.ChunkLengthSeconds = f
		}
	}
	if v := os.Getenv("BUFFERING_CHUNK_OFFSET_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Segmentation.ChunkOffsetSeconds = f
		}
	}
	if v := os.Getenv("DEEPGRAM_API_KEY"); v != "" {
		c.Recognition.DeepgramAPIKey = v
	}
	if v := os.Getenv("STT_LANGUAGE"); v != "" {
		c.Recognition.Language = v
	}
	if v := os.Getenv("STT_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Server.WSPath == "" {
		return fmt.Errorf("websocket path must not be empty")
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("max sessions must be positive, got %d", c.Server.MaxSessions)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.SampleWidth <= 0 {
		return fmt.Errorf("sample width must be positive, got %d", c.Audio.SampleWidth)
	}
	if c.Segmentation.ChunkLengthSeconds <= 0 {
		return fmt.Errorf("chunk length must be positive, got %f", c.Segmentation.ChunkLengthSeconds)
	}
	if c.Segmentation.ChunkOffsetSeconds < 0 {
		return fmt.Errorf("chunk offset must not be negative, got %f", c.Segmentation.ChunkOffsetSeconds)
	}
	if c.Recognition.TimeoutSeconds <= 0 {
		return fmt.Errorf("recognition timeout must be positive, got %f", c.Recognition.TimeoutSeconds)
	}
	return nil
}
