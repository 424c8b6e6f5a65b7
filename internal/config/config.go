// Package config provides YAML-based configuration loading for Mission Control.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Mission Control configuration, loaded from config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Board     BoardConfig     `yaml:"board"`
	Agent     AgentConfig     `yaml:"agent"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Notify    NotifyConfig    `yaml:"notify"`
	LogLevel  string          `yaml:"log_level"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds connection settings for the backing store.
// Driver "mysql" uses host/port/database; driver "sqlite" uses path.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"`
}

// BoardConfig holds board view settings.
type BoardConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// AgentConfig holds settings for the external agent CLI and gateway.
type AgentConfig struct {
	CLI            string `yaml:"cli"`
	GatewayRestart string `yaml:"gateway_restart"`
}

// WorkspaceConfig holds settings for file-based reporting.
type WorkspaceConfig struct {
	ReportsDir string `yaml:"reports_dir"`
}

// NotifyConfig selects the review-escalation backend.
type NotifyConfig struct {
	Backend string `yaml:"backend"` // discord, slack, or none
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists: a local
// sqlite store and no notification backend.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "missionctl.db"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.Database == "" {
			c.Database.Database = "missionctl"
		}
	}
	if c.Board.PollInterval == 0 {
		c.Board.PollInterval = 10 * time.Second
	}
	if c.Notify.Backend == "" {
		c.Notify.Backend = "none"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported (sqlite, mysql)", c.Database.Driver))
	}
	if c.Board.PollInterval < time.Second {
		errs = append(errs, "board.poll_interval must be at least 1s")
	}
	switch c.Notify.Backend {
	case "none":
	case "discord", "slack":
		if c.Notify.Token == "" {
			errs = append(errs, fmt.Sprintf("notify.token is required for backend %q", c.Notify.Backend))
		}
		if c.Notify.Channel == "" {
			errs = append(errs, fmt.Sprintf("notify.channel is required for backend %q", c.Notify.Backend))
		}
	default:
		errs = append(errs, fmt.Sprintf("notify.backend %q is not supported (discord, slack, none)", c.Notify.Backend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
