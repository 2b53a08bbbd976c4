// Package config loads flatpages configuration from a YAML file, an optional
// .env file, and FLATPAGES_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/flatpages/internal/errors"
)

// Config is the full application configuration.
type Config struct {
	Pages   PagesConfig   `yaml:"pages"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// PagesConfig configures the page cache. All three fields are fixed for the
// lifetime of a cache instance.
type PagesConfig struct {
	Root      string `yaml:"root"`
	Extension string `yaml:"extension"`
	Encoding  string `yaml:"encoding"`
}

// ServerConfig configures the HTTP consumer.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	TemplatesDir string        `yaml:"templates"`
	// ReloadInterval > 0 schedules a periodic cache reset in serve mode.
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pages: PagesConfig{
			Root:      "pages",
			Extension: ".html",
			Encoding:  "utf-8",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from path (missing file means defaults), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults only
		case err != nil:
			return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "read config file").
				WithContext("path", path)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "parse config file").
					WithContext("path", path)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads the first .env file found. Existing process environment
// variables are not overwritten.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
	}
}

// applyEnv overrides configuration from FLATPAGES_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FLATPAGES_ROOT"); v != "" {
		cfg.Pages.Root = v
	}
	if v := os.Getenv("FLATPAGES_EXTENSION"); v != "" {
		cfg.Pages.Extension = v
	}
	if v := os.Getenv("FLATPAGES_ENCODING"); v != "" {
		cfg.Pages.Encoding = v
	}
	if v := os.Getenv("FLATPAGES_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FLATPAGES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FLATPAGES_TEMPLATES"); v != "" {
		cfg.Server.TemplatesDir = v
	}
	if v := os.Getenv("FLATPAGES_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Pages.Root) == "" {
		return derrors.ConfigInvalid("pages.root", "must not be empty")
	}
	if !strings.HasPrefix(c.Pages.Extension, ".") {
		return derrors.ConfigInvalid("pages.extension",
			fmt.Sprintf("must start with a dot, got %q", c.Pages.Extension))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return derrors.ConfigInvalid("server.port",
			fmt.Sprintf("must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.ReloadInterval < 0 {
		return derrors.ConfigInvalid("server.reload_interval", "must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return derrors.ConfigInvalid("logging.level",
			fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	return nil
}

// Addr returns the host:port the server binds to.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
