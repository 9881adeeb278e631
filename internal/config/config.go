// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Memory  MemoryConfig  `mapstructure:"memory" yaml:"memory"`
	Heal    HealConfig    `mapstructure:"heal" yaml:"heal"`
	Suggest SuggestConfig `mapstructure:"suggest" yaml:"suggest"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig holds settings for the headless browser instance.
type BrowserConfig struct {
	Headless     bool     `mapstructure:"headless" yaml:"headless"`
	WindowWidth  int      `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight int      `mapstructure:"window_height" yaml:"window_height"`
	Args         []string `mapstructure:"args" yaml:"args"`
	Debug        bool     `mapstructure:"debug" yaml:"debug"`
}

// NetworkConfig tunes navigation and per-action timeouts.
type NetworkConfig struct {
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	QueryTimeout      time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
	ActionTimeout     time.Duration `mapstructure:"action_timeout" yaml:"action_timeout"`
	PostLoadWait      time.Duration `mapstructure:"post_load_wait" yaml:"post_load_wait"`
}

// MemoryConfig locates the durable locator store.
type MemoryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// HealConfig carries the tuning knobs of the heuristic healer. The
// similarity weights are inherited tuning constants with no stated
// derivation, so they are configuration rather than code.
type HealConfig struct {
	Weights           ScoreWeights `mapstructure:"weights" yaml:"weights"`
	ShortTextMaxChars int          `mapstructure:"short_text_max_chars" yaml:"short_text_max_chars"`
}

// ScoreWeights weighs each inspected attribute in the candidate score.
type ScoreWeights struct {
	ID    float64 `mapstructure:"id" yaml:"id"`
	Text  float64 `mapstructure:"text" yaml:"text"`
	Class float64 `mapstructure:"class" yaml:"class"`
	Name  float64 `mapstructure:"name" yaml:"name"`
	Value float64 `mapstructure:"value" yaml:"value"`
}

// SuggestProvider names a remote suggestion backend.
type SuggestProvider string

const (
	ProviderOff    SuggestProvider = "off"
	ProviderOpenAI SuggestProvider = "openai"
	ProviderGemini SuggestProvider = "gemini"
)

// SuggestConfig configures the optional remote locator suggestion strategy.
type SuggestConfig struct {
	Provider         SuggestProvider `mapstructure:"provider" yaml:"provider"`
	Model            string          `mapstructure:"model" yaml:"model"`
	APIKey           string          `mapstructure:"api_key" yaml:"-"`
	Endpoint         string          `mapstructure:"endpoint" yaml:"endpoint"`
	APITimeout       time.Duration   `mapstructure:"api_timeout" yaml:"api_timeout"`
	MaxCandidates    int             `mapstructure:"max_candidates" yaml:"max_candidates"`
	SnapshotMaxChars int             `mapstructure:"snapshot_max_chars" yaml:"snapshot_max_chars"`
	MaxOutputTokens  int             `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
	RequestsPerMin   float64         `mapstructure:"requests_per_min" yaml:"requests_per_min"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "healix")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)
	v.SetDefault("browser.debug", false)

	// -- Network --
	v.SetDefault("network.navigation_timeout", "90s")
	v.SetDefault("network.query_timeout", "10s")
	v.SetDefault("network.action_timeout", "30s")
	v.SetDefault("network.post_load_wait", "1500ms")

	// -- Memory --
	v.SetDefault("memory.path", "healix-memory.json")

	// -- Heal --
	v.SetDefault("heal.weights.id", 5.0)
	v.SetDefault("heal.weights.text", 3.0)
	v.SetDefault("heal.weights.class", 3.0)
	v.SetDefault("heal.weights.name", 2.0)
	v.SetDefault("heal.weights.value", 3.0)
	v.SetDefault("heal.short_text_max_chars", 40)

	// -- Suggest --
	v.SetDefault("suggest.provider", "off")
	v.SetDefault("suggest.model", "")
	v.SetDefault("suggest.api_timeout", "60s")
	v.SetDefault("suggest.max_candidates", 25)
	v.SetDefault("suggest.snapshot_max_chars", 20000)
	v.SetDefault("suggest.max_output_tokens", 400)
	v.SetDefault("suggest.requests_per_min", 10.0)
}

// NewDefaultConfig creates a configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with pure defaults, but fail loudly if it does.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Bind environment variables for sensitive data.
	_ = v.BindEnv("suggest.api_key", "HEALIX_SUGGEST_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Memory.Path == "" {
		return fmt.Errorf("memory.path is a required configuration field")
	}
	if c.Heal.ShortTextMaxChars <= 0 {
		return fmt.Errorf("heal.short_text_max_chars must be a positive integer")
	}
	if err := c.Heal.Weights.Validate(); err != nil {
		return fmt.Errorf("heal.weights configuration invalid: %w", err)
	}
	if err := c.Suggest.Validate(); err != nil {
		return fmt.Errorf("suggest configuration invalid: %w", err)
	}
	return nil
}

// Validate rejects negative weights; a zero weight disables an attribute.
func (w *ScoreWeights) Validate() error {
	for _, v := range []float64{w.ID, w.Text, w.Class, w.Name, w.Value} {
		if v < 0 {
			return fmt.Errorf("weights must be non-negative")
		}
	}
	if w.ID == 0 && w.Text == 0 && w.Class == 0 && w.Name == 0 && w.Value == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

// Validate checks the suggestion settings when a provider is enabled.
func (s *SuggestConfig) Validate() error {
	switch s.Provider {
	case "", ProviderOff, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q (supported: off, openai, gemini)", s.Provider)
	}
	if s.Provider == ProviderOff || s.Provider == "" {
		return nil
	}
	if s.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be a positive integer")
	}
	if s.SnapshotMaxChars < 0 {
		return fmt.Errorf("snapshot_max_chars must not be negative")
	}
	if s.RequestsPerMin <= 0 {
		return fmt.Errorf("requests_per_min must be positive")
	}
	return nil
}
