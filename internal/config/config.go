// Package config provides configuration management for the vantage dev
// server using Viper, loading from .vantage.yml, environment variables with
// the VANTAGE_ prefix, and command-line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Viper decodes through mapstructure, so every snake_case key needs a
// mapstructure tag alongside the yaml one or it never reaches its field.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Templates   TemplatesConfig   `yaml:"templates" mapstructure:"templates"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Development DevelopmentConfig `yaml:"development" mapstructure:"development"`
}

type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	Host           string   `yaml:"host" mapstructure:"host"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Environment    string   `yaml:"environment" mapstructure:"environment"`
}

type TemplatesConfig struct {
	Dir      string   `yaml:"dir" mapstructure:"dir"`
	Partials []string `yaml:"partials" mapstructure:"partials"`
	Static   string   `yaml:"static" mapstructure:"static"`

	// StaticDir is the directory served under the Static URL prefix.
	// Empty disables static file serving.
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

type SessionConfig struct {
	Secret     string `yaml:"secret" mapstructure:"secret"`
	CookieName string `yaml:"cookie_name" mapstructure:"cookie_name"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	Secure     bool   `yaml:"secure" mapstructure:"secure"`
}

type DevelopmentConfig struct {
	HotReload bool `yaml:"hot_reload" mapstructure:"hot_reload"`
	Debug     bool `yaml:"debug" mapstructure:"debug"`
}

// Load reads configuration from viper (file, env, bound flags), applies
// defaults, and validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8000
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Environment == "" {
		config.Server.Environment = "development"
	}
	if config.Templates.Dir == "" {
		config.Templates.Dir = "templates"
	}
	if len(config.Templates.Partials) == 0 && !viper.IsSet("templates.partials") {
		config.Templates.Partials = []string{"base.html"}
	}
	if config.Templates.Static == "" {
		config.Templates.Static = "/static/"
	}
	if config.Session.CookieName == "" {
		config.Session.CookieName = "vantage_session"
	}

	// Viper leaves bool zero values ambiguous; only trust explicit keys.
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	} else if config.Server.Environment == "development" {
		config.Development.HotReload = true
	}
	if viper.IsSet("development.debug") {
		config.Development.Debug = viper.GetBool("development.debug")
	} else if config.Server.Environment == "development" {
		config.Development.Debug = true
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and
// correctness.
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validatePath(config.Templates.Dir); err != nil {
		return fmt.Errorf("templates config: invalid dir %q: %w", config.Templates.Dir, err)
	}
	if config.Templates.StaticDir != "" {
		if err := validatePath(config.Templates.StaticDir); err != nil {
			return fmt.Errorf("templates config: invalid static_dir %q: %w", config.Templates.StaticDir, err)
		}
	}
	if config.Session.Secret != "" && len(config.Session.Secret) < 16 {
		return fmt.Errorf("session config: secret shorter than 16 bytes")
	}
	if config.Session.MaxAge < 0 {
		return fmt.Errorf("session config: max_age cannot be negative")
	}
	return nil
}

func validateServerConfig(config *ServerConfig) error {
	// Port 0 is permitted so tests can bind system-assigned ports.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validatePath validates a file path for security.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
