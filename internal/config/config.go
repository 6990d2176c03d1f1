package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all qoyupos configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Backend connection
	Server ServerConfig `yaml:"server"`

	// Live feeds (polling and websocket reconnects)
	Feeds FeedsConfig `yaml:"feeds"`

	// Order notification sound
	Sound SoundConfig `yaml:"sound"`

	// Customer-facing status display
	Display DisplayConfig `yaml:"display"`

	// Catalog presentation
	Catalog CatalogConfig `yaml:"catalog"`

	// UI settings
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the backend connection.
type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	RequestTimeout string `yaml:"request_timeout"`
	SubmitTimeout  string `yaml:"submit_timeout"`
}

// FeedsConfig configures polling and reconnect behavior.
type FeedsConfig struct {
	OrdersPollInterval string `yaml:"orders_poll_interval"`
	ReconnectMin       string `yaml:"reconnect_min"`
	ReconnectMax       string `yaml:"reconnect_max"`
}

// SoundConfig configures the new-order chime.
type SoundConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MinInterval string `yaml:"min_interval"`
}

// DisplayConfig configures the customer status screen.
type DisplayConfig struct {
	ReadyWindow string `yaml:"ready_window"`
	MaxReady    int    `yaml:"max_ready"`
}

// CatalogConfig configures catalog presentation rules.
type CatalogConfig struct {
	// Fallback prefix used to recognize size option groups when the
	// backend does not mark them explicitly. Matched case-insensitively.
	SizeGroupPrefix string `yaml:"size_group_prefix"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	Theme  string `yaml:"theme"`  // auto, light, dark
	Locale string `yaml:"locale"` // ru, kk
}

// LoggingConfig configures category file logging.
type LoggingConfig struct {
	Debug      bool            `yaml:"debug"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "qoyupos",
		Version: "1.2.0",

		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			RequestTimeout: "15s",
			SubmitTimeout:  "30s",
		},

		Feeds: FeedsConfig{
			OrdersPollInterval: "1s",
			ReconnectMin:       "1500ms",
			ReconnectMax:       "15s",
		},

		Sound: SoundConfig{
			Enabled:     true,
			MinInterval: "2s",
		},

		Display: DisplayConfig{
			ReadyWindow: "5m",
			MaxReady:    8,
		},

		Catalog: CatalogConfig{
			SizeGroupPrefix: "размер",
		},

		UI: UIConfig{
			Theme:  "auto",
			Locale: "ru",
		},

		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

// DefaultStateDir returns the qoyupos state directory (~/.qoyupos).
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qoyupos"
	}
	return filepath.Join(home, ".qoyupos")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultStateDir(), "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("QOYUPOS_SERVER_URL"); url != "" {
		c.Server.BaseURL = url
	}
	if theme := os.Getenv("QOYUPOS_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if locale := os.Getenv("QOYUPOS_LOCALE"); locale != "" {
		c.UI.Locale = locale
	}
	if v := os.Getenv("QOYUPOS_SOUND"); v != "" {
		c.Sound.Enabled = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "on")
	}
	if v := os.Getenv("QOYUPOS_DEBUG"); v != "" {
		c.Logging.Debug = v == "1" || strings.EqualFold(v, "true")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base URL not configured (set server.base_url or QOYUPOS_SERVER_URL)")
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return fmt.Errorf("server base URL must start with http:// or https://: %s", c.Server.BaseURL)
	}
	switch c.UI.Locale {
	case "", "ru", "kk":
	default:
		return fmt.Errorf("unsupported locale: %s (valid: ru, kk)", c.UI.Locale)
	}
	return nil
}

// GetRequestTimeout returns the API request timeout as a duration.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetSubmitTimeout returns the order submission timeout as a duration.
func (c *Config) GetSubmitTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.SubmitTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetOrdersPollInterval returns the cashier orders poll interval.
func (c *Config) GetOrdersPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Feeds.OrdersPollInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// GetReconnectMin returns the initial websocket reconnect delay.
func (c *Config) GetReconnectMin() time.Duration {
	d, err := time.ParseDuration(c.Feeds.ReconnectMin)
	if err != nil || d <= 0 {
		return 1500 * time.Millisecond
	}
	return d
}

// GetReconnectMax returns the reconnect delay ceiling.
func (c *Config) GetReconnectMax() time.Duration {
	d, err := time.ParseDuration(c.Feeds.ReconnectMax)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetSoundMinInterval returns the minimum gap between chimes.
func (c *Config) GetSoundMinInterval() time.Duration {
	d, err := time.ParseDuration(c.Sound.MinInterval)
	if err != nil || d < 0 {
		return 2 * time.Second
	}
	return d
}

// GetReadyWindow returns how long a closed order stays on the READY board.
func (c *Config) GetReadyWindow() time.Duration {
	d, err := time.ParseDuration(c.Display.ReadyWindow)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// GetMaxReady returns the READY board size cap.
func (c *Config) GetMaxReady() int {
	if c.Display.MaxReady <= 0 {
		return 8
	}
	return c.Display.MaxReady
}
