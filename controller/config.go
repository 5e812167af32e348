package controller

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/studyloop/tutorchat/exchange"
	"github.com/studyloop/tutorchat/storage"
)

const (
	defaultGreeting   = "Hi! What would you like to work on today?"
	defaultErrorReply = "Sorry, something went wrong. Please try again."
	defaultObserver   = "slog"
)

// Config holds initialization parameters for all chat subsystems.
// Each subsystem section delegates to that subsystem's config-driven
// constructor.
type Config struct {
	Service    exchange.Config `json:"service"`
	Storage    storage.Config  `json:"storage"`
	UserKey    string          `json:"user_key"`
	Greeting   string          `json:"greeting,omitempty"`
	ErrorReply string          `json:"error_reply,omitempty"`
	Observer   string          `json:"observer,omitempty"` // name in the observability registry
}

// envOverrides are applied on top of file configuration, so deployments
// can point a build at another backend without editing files.
type envOverrides struct {
	BaseURL     string `env:"TUTORCHAT_BASE_URL"`
	StoragePath string `env:"TUTORCHAT_STORAGE_PATH"`
	UserKey     string `env:"TUTORCHAT_USER_KEY"`
	Observer    string `env:"TUTORCHAT_OBSERVER"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Service:    exchange.DefaultConfig(),
		Storage:    storage.DefaultConfig(),
		Greeting:   defaultGreeting,
		ErrorReply: defaultErrorReply,
		Observer:   defaultObserver,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Service.Merge(&source.Service)
	c.Storage.Merge(&source.Storage)

	if source.UserKey != "" {
		c.UserKey = source.UserKey
	}
	if source.Greeting != "" {
		c.Greeting = source.Greeting
	}
	if source.ErrorReply != "" {
		c.ErrorReply = source.ErrorReply
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// ApplyEnv overlays TUTORCHAT_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if overrides.BaseURL != "" {
		c.Service.BaseURL = overrides.BaseURL
	}
	if overrides.StoragePath != "" {
		c.Storage.Path = overrides.StoragePath
	}
	if overrides.UserKey != "" {
		c.UserKey = overrides.UserKey
	}
	if overrides.Observer != "" {
		c.Observer = overrides.Observer
	}
	return nil
}

// LoadConfig reads a JSON config file, merges it with defaults, applies
// environment overrides, and returns the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
