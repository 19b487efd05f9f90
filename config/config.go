package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the poster. It is constructed once at
// process start and passed into each component; nothing reads it globally.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Search    SearchConfig    `mapstructure:"search"`
	LLM       LLMConfig       `mapstructure:"llm"`
	LinkedIn  LinkedInConfig  `mapstructure:"linkedin"`
	History   HistoryConfig   `mapstructure:"history"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// SearchConfig controls the news-feed search stage.
type SearchConfig struct {
	Queries       []string      `mapstructure:"queries"`
	MaxQueries    int           `mapstructure:"max_queries"`
	PerQuery      int           `mapstructure:"per_query"`
	MaxTopics     int           `mapstructure:"max_topics"`
	SnippetLength int           `mapstructure:"snippet_length"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Endpoint      string        `mapstructure:"endpoint"`
	Language      string        `mapstructure:"language"`
	Country       string        `mapstructure:"country"`
	UserAgent     string        `mapstructure:"user_agent"`
}

func (s SearchConfig) Validate() error {
	if len(s.Queries) == 0 {
		return fmt.Errorf("search.queries must not be empty")
	}
	if s.MaxQueries <= 0 {
		return fmt.Errorf("search.max_queries must be > 0")
	}
	if s.PerQuery <= 0 {
		return fmt.Errorf("search.per_query must be > 0")
	}
	if s.MaxTopics <= 0 {
		return fmt.Errorf("search.max_topics must be > 0")
	}
	if s.SnippetLength <= 0 {
		return fmt.Errorf("search.snippet_length must be > 0")
	}
	if strings.TrimSpace(s.Endpoint) == "" {
		return fmt.Errorf("search.endpoint is required")
	}
	return nil
}

// LLMConfig contains the chat-completion provider settings. APIKey is read
// from the environment (GROQ_API_KEY) and checked at run time, not here, so
// read-only commands work without credentials.
type LLMConfig struct {
	APIKey                string        `mapstructure:"api_key"`
	Endpoint              string        `mapstructure:"endpoint"`
	Model                 string        `mapstructure:"model"`
	MaxTokens             int           `mapstructure:"max_tokens"`
	SelectionTemperature  float64       `mapstructure:"selection_temperature"`
	GenerationTemperature float64       `mapstructure:"generation_temperature"`
	Timeout               time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Endpoint) == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	if l.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0")
	}
	return nil
}

// LinkedInConfig contains publish API settings. Credentials are resolved at
// run time from the environment or the token file, never stored here.
type LinkedInConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Version   string        `mapstructure:"version"`
	TokenFile string        `mapstructure:"token_file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func (l LinkedInConfig) Validate() error {
	if strings.TrimSpace(l.Endpoint) == "" {
		return fmt.Errorf("linkedin.endpoint is required")
	}
	if strings.TrimSpace(l.Version) == "" {
		return fmt.Errorf("linkedin.version is required")
	}
	return nil
}

// HistoryConfig controls the bounded post-history file.
type HistoryConfig struct {
	File  string `mapstructure:"file"`
	Limit int    `mapstructure:"limit"`
}

func (h HistoryConfig) Validate() error {
	if strings.TrimSpace(h.File) == "" {
		return fmt.Errorf("history.file is required")
	}
	if h.Limit <= 0 {
		return fmt.Errorf("history.limit must be > 0")
	}
	return nil
}

// TelemetryConfig contains metrics settings; the endpoint is only served in
// schedule mode.
type TelemetryConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

func (t TelemetryConfig) Validate() error {
	if t.Enabled && t.MetricsPort <= 0 {
		return fmt.Errorf("telemetry.metrics_port must be > 0 when telemetry is enabled")
	}
	return nil
}

// Normalize applies the general default timeout to sections left at zero.
func (c Config) Normalize() Config {
	if c.General.DefaultTimeout <= 0 {
		c.General.DefaultTimeout = 30 * time.Second
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 10 * time.Second
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = c.General.DefaultTimeout
	}
	if c.LinkedIn.Timeout <= 0 {
		c.LinkedIn.Timeout = c.General.DefaultTimeout
	}
	return c
}

func (c Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.LinkedIn.Validate(); err != nil {
		return err
	}
	if err := c.History.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads configuration from an optional JSON config file, environment
// variables (AUTOPOSTER_* plus the legacy unprefixed credential names), and
// built-in defaults, in ascending precedence of defaults < file < env. A
// missing config file is fine when no explicit path was given; every tunable
// has a default.
func Load(path string) (*Config, error) {
	// Best-effort .env load so local runs pick up credentials the same way
	// CI does through real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	setDefaults(v)

	if path == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if exe, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(exe))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("AUTOPOSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The provider key keeps its historical unprefixed name as a fallback.
	if err := v.BindEnv("llm.api_key", "AUTOPOSTER_LLM_API_KEY", "GROQ_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding llm.api_key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	config = config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.default_timeout", 30*time.Second)

	v.SetDefault("search.queries", []string{
		"Android development trends 2025",
		"Kotlin new features latest",
		"Jetpack Compose updates",
		"Android developer tips",
		"Mobile app development trends",
	})
	v.SetDefault("search.max_queries", 3)
	v.SetDefault("search.per_query", 3)
	v.SetDefault("search.max_topics", 5)
	v.SetDefault("search.snippet_length", 200)
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.endpoint", "https://news.google.com/rss/search")
	v.SetDefault("search.language", "en-US")
	v.SetDefault("search.country", "US")
	v.SetDefault("search.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	v.SetDefault("llm.endpoint", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("llm.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.selection_temperature", 0.5)
	v.SetDefault("llm.generation_temperature", 0.8)

	v.SetDefault("linkedin.endpoint", "https://api.linkedin.com")
	v.SetDefault("linkedin.version", "202401")
	v.SetDefault("linkedin.token_file", "linkedin_tokens.json")

	v.SetDefault("history.file", "post_history.json")
	v.SetDefault("history.limit", 50)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.metrics_port", 2112)
}
