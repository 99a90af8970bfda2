package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is overridden at build time via ldflags.
var Version = "dev"

// legacyAPIKeyEnv is the variable name used by earlier browser builds.
const legacyAPIKeyEnv = "VITE_TMBD_API_KEY"

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
	TMDB          TMDBConfig    `mapstructure:"tmdb" yaml:"tmdb"`
	Cache         CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Retry         RetryConfig   `mapstructure:"retry" yaml:"retry"`
	DeveloperMode bool          `mapstructure:"developer_mode" yaml:"developer_mode"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// TMDBConfig holds TMDB API client configuration.
type TMDBConfig struct {
	APIKey            string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url"`
	ImageBaseURL      string  `mapstructure:"image_base_url" yaml:"image_base_url"`
	PosterSize        string  `mapstructure:"poster_size" yaml:"poster_size"`
	Timeout           int     `mapstructure:"timeout" yaml:"timeout"` // seconds
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
}

// CacheConfig holds response cache configuration.
// An empty Path disables the persistent tier.
type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	MaxItems  int           `mapstructure:"max_items" yaml:"max_items"`
	Path      string        `mapstructure:"path" yaml:"path"`
	PruneCron string        `mapstructure:"prune_cron" yaml:"prune_cron"`
	GenresTTL time.Duration `mapstructure:"genres_ttl" yaml:"genres_ttl"`
}

// RetryConfig holds backoff settings for remote catalog fetches.
type RetryConfig struct {
	InitialDelay time.Duration `mapstructure:"initial_delay" yaml:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	Multiplier   float64       `mapstructure:"multiplier" yaml:"multiplier"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TMDB: TMDBConfig{
			APIKey:            EmbeddedTMDBKey,
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p",
			PosterSize:        "w500",
			Timeout:           15,
			RequestsPerSecond: 20,
			Burst:             10,
		},
		Cache: CacheConfig{
			TTL:       10 * time.Minute,
			MaxItems:  1000,
			PruneCron: "*/30 * * * *",
			GenresTTL: 24 * time.Hour,
		},
		Retry: RetryConfig{
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			MaxAttempts:  3,
			Multiplier:   2.0,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > .env file > config file > defaults
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.movierecs")
	}

	v.SetEnvPrefix("MOVIERECS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.TMDB.APIKey == "" {
		cfg.TMDB.APIKey = os.Getenv(legacyAPIKeyEnv)
	}
	if cfg.TMDB.APIKey == "" {
		cfg.TMDB.APIKey = EmbeddedTMDBKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv loads a .env file from the working directory if present.
// Variables already set in the process environment win.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil //nolint:nilerr // no .env file is the common case
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	// The embedded key is applied after the legacy variable in Load.
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", d.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", d.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.poster_size", d.TMDB.PosterSize)
	v.SetDefault("tmdb.timeout", d.TMDB.Timeout)
	v.SetDefault("tmdb.requests_per_second", d.TMDB.RequestsPerSecond)
	v.SetDefault("tmdb.burst", d.TMDB.Burst)

	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_items", d.Cache.MaxItems)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.prune_cron", d.Cache.PruneCron)
	v.SetDefault("cache.genres_ttl", d.Cache.GenresTTL)

	v.SetDefault("retry.initial_delay", d.Retry.InitialDelay)
	v.SetDefault("retry.max_delay", d.Retry.MaxDelay)
	v.SetDefault("retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("developer_mode", false)
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.TMDB.BaseURL == "" {
		return errors.New("tmdb.base_url must not be empty")
	}
	return nil
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// redactedValue replaces secrets in dumped configuration.
const redactedValue = "********"

// YAML renders the effective configuration with secrets masked.
func (c *Config) YAML() ([]byte, error) {
	out := *c
	if out.TMDB.APIKey != "" {
		out.TMDB.APIKey = redactedValue
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
