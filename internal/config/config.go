package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Source  SourceConfig  `yaml:"source" envconfig:"SOURCE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// SourceConfig describes the sales spreadsheet and its load policies
type SourceConfig struct {
	// File is the path to the sales spreadsheet.
	File string `yaml:"file" envconfig:"FILE" default:"vendas.xlsx"`
	// NumberFormat is "br" or "us" and controls lone-comma disambiguation.
	NumberFormat string `yaml:"number_format" envconfig:"NUMBER_FORMAT" default:"br"`
	// AutoReload reloads the dataset when the source file's mtime changes.
	AutoReload bool `yaml:"auto_reload" envconfig:"AUTO_RELOAD" default:"true"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Environment variables first; a config.yaml next to the binary then
	// overrides whatever it sets.
	if err := envconfig.Process("VENDAS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := mergeFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// configFilePath allows overriding the config file location via env.
func configFilePath() string {
	if p := os.Getenv("VENDAS_CONFIG_FILE"); p != "" {
		return p
	}
	return "config.yaml"
}

// mergeFile overlays non-zero values from a YAML file onto cfg.
func mergeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	if file.Server.Port != 0 {
		cfg.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 {
		cfg.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 {
		cfg.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 {
		cfg.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 {
		cfg.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Server.RateLimit.RPS != 0 {
		cfg.Server.RateLimit = file.Server.RateLimit
	}
	if file.Logging.Level != "" {
		cfg.Logging.Level = file.Logging.Level
	}
	if file.Logging.Output != "" {
		cfg.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		cfg.Logging.FilePath = file.Logging.FilePath
	}
	if file.Source.File != "" {
		cfg.Source.File = file.Source.File
	}
	if file.Source.NumberFormat != "" {
		cfg.Source.NumberFormat = file.Source.NumberFormat
	}

	return nil
}

// validate checks configuration values
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Source.File == "" {
		return fmt.Errorf("source file must not be empty")
	}
	switch c.Source.NumberFormat {
	case "br", "us":
	default:
		return fmt.Errorf("invalid number format %q (want br or us)", c.Source.NumberFormat)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return nil
}
