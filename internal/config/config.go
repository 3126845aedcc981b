// Package config loads the client's settings: built-in defaults, then an
// optional YAML file, then the environment (a .env file is honoured).
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/akira/internal/chatapi"
	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
	"github.com/hammamikhairi/akira/internal/render"
	"github.com/hammamikhairi/akira/internal/timer"
)

// Config holds every setting of the client.
type Config struct {
	Endpoint       string        `yaml:"endpoint" env:"AKIRA_ENDPOINT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"AKIRA_REQUEST_TIMEOUT"`
	LogLevel       string        `yaml:"log_level" env:"AKIRA_LOG_LEVEL"`
	LogFile        string        `yaml:"log_file" env:"AKIRA_LOG_FILE"`
	StorePath      string        `yaml:"store" env:"AKIRA_STORE"`
	RevealSpeed    time.Duration `yaml:"reveal_speed" env:"AKIRA_REVEAL_SPEED"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"AKIRA_IDLE_TIMEOUT"`
	Greeting       string        `yaml:"greeting" env:"AKIRA_GREETING"`
	Speech         SpeechConfig  `yaml:"speech"`
}

// SpeechConfig configures text-to-speech.
type SpeechConfig struct {
	Enabled   bool    `yaml:"enabled" env:"AKIRA_SPEECH"`
	Key       string  `yaml:"-" env:"AZURE_SPEECH_KEY"`
	Region    string  `yaml:"region" env:"AZURE_SPEECH_REGION"`
	Voice     string  `yaml:"voice" env:"AKIRA_VOICE"`
	Lang      string  `yaml:"lang" env:"AKIRA_SPEECH_LANG"`
	Rate      float64 `yaml:"rate" env:"AKIRA_SPEECH_RATE"`
	Pitch     float64 `yaml:"pitch" env:"AKIRA_SPEECH_PITCH"`
	Volume    float64 `yaml:"volume" env:"AKIRA_SPEECH_VOLUME"`
	CacheDir  string  `yaml:"cache_dir" env:"AKIRA_SPEECH_CACHE_DIR"`
	DiskCache bool    `yaml:"disk_cache" env:"AKIRA_SPEECH_DISK_CACHE"`
}

// Configured reports whether Azure credentials are present.
func (s SpeechConfig) Configured() bool { return s.Key != "" && s.Region != "" }

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Endpoint:       chatapi.DefaultEndpoint,
		RequestTimeout: 60 * time.Second,
		LogLevel:       logger.LevelNormal.String(),
		LogFile:        filepath.Join(".akira", "akira.log"),
		StorePath:      filepath.Join(".akira", "akira.db"),
		RevealSpeed:    render.DefaultSpeed,
		IdleTimeout:    timer.DefaultIdleTimeout,
		Speech: SpeechConfig{
			Enabled:   true,
			Voice:     domain.DefaultSpeechVoice,
			Lang:      domain.DefaultSpeechLang,
			Rate:      1,
			Pitch:     1,
			Volume:    1,
			CacheDir:  filepath.Join(".akira", "tts-cache"),
			DiskCache: true,
		},
	}
}

// DefaultPath is where Load looks when no file is named.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "akira", "config.yaml")
	}
	return "akira.yaml"
}

// Load builds the configuration. A missing file at path is not an error;
// a file that exists but doesn't parse is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: endpoint %q is not an http(s) URL", c.Endpoint)
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.RevealSpeed <= 0 {
		return fmt.Errorf("config: reveal speed must be positive, got %s", c.RevealSpeed)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("config: idle timeout must be positive, got %s", c.IdleTimeout)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: request timeout must not be negative")
	}
	return nil
}
