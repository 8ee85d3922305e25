package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Namespaces selecting which realtime feature a client speaks to. The
// namespace picks the endpoint path: /api/v1/{namespace}/ws/{roomID}.
const (
	NamespaceChat          = "chat"
	NamespaceCollaborative = "collaborative"
)

// Default configuration values.
const (
	DefaultReconnectBaseDelay   = 1 * time.Second
	DefaultMaxReconnectAttempts = 5
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the platform origin, e.g. "wss://platform.example.com".
	BaseURL string

	// Namespace is the realtime feature to connect to: NamespaceChat or
	// NamespaceCollaborative.
	Namespace string

	// ReconnectBaseDelay is the delay before the first reconnect attempt.
	// Subsequent attempts double it.
	ReconnectBaseDelay time.Duration

	// MaxReconnectAttempts caps consecutive failed reconnects before the
	// client settles into a terminal disconnected state. Zero means
	// DefaultMaxReconnectAttempts; a negative value disables reconnection,
	// so any unexpected close is terminal.
	MaxReconnectAttempts int

	// OnConnectionChange is called with true on every open and false on
	// every close of a live transport. Not called for the connecting state.
	OnConnectionChange func(connected bool)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Namespace:            NamespaceChat,
		ReconnectBaseDelay:   DefaultReconnectBaseDelay,
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	switch c.Namespace {
	case NamespaceChat, NamespaceCollaborative:
	default:
		return fmt.Errorf("unknown namespace %q", c.Namespace)
	}
	if c.ReconnectBaseDelay < 0 {
		return errors.New("ReconnectBaseDelay must not be negative")
	}
	return nil
}

func (c *Config) normalize() {
	if c.ReconnectBaseDelay == 0 {
		c.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.MaxReconnectAttempts == 0 {
		c.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
}

// fileConfig is the YAML-facing shape. Durations are strings so config files
// can say "1s" or "500ms".
type fileConfig struct {
	BaseURL              string `yaml:"baseUrl"`
	Namespace            string `yaml:"namespace"`
	ReconnectBaseDelay   string `yaml:"reconnectBaseDelay"`
	MaxReconnectAttempts int    `yaml:"maxReconnectAttempts"`
}

// LoadConfig reads a Config from a YAML file. Absent fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if raw.BaseURL != "" {
		cfg.BaseURL = raw.BaseURL
	}
	if raw.Namespace != "" {
		cfg.Namespace = raw.Namespace
	}
	if raw.ReconnectBaseDelay != "" {
		d, err := time.ParseDuration(raw.ReconnectBaseDelay)
		if err != nil {
			return cfg, fmt.Errorf("parse reconnectBaseDelay: %w", err)
		}
		cfg.ReconnectBaseDelay = d
	}
	if raw.MaxReconnectAttempts != 0 {
		cfg.MaxReconnectAttempts = raw.MaxReconnectAttempts
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
