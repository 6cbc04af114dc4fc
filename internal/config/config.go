package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the process-level settings shared by the CLI and the HTTP
// server. Values load from an optional YAML file, then LQ_* environment
// variables override.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	DBPath   string       `yaml:"db_path"`
	Timezone string       `yaml:"timezone"`
	LogLevel string       `yaml:"log_level"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func Default() Config {
	return Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Timezone: "America/Chicago",
		LogLevel: "info",
	}
}

// Load reads path (when non-empty and present) and applies env overrides.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("LQ_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LQ_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("LQ_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LQ_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LQ_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse LQ_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to the host's
// local zone when the name is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
