// Package config loads service configuration from an optional YAML file with
// environment overrides. Environment always wins so deployments can keep one
// file per environment and tweak single values in the unit.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	envConfigPath = "NEWSDESK_CONFIG"
	envAddr       = "NEWSDESK_ADDR"
	envDSN        = "NEWSDESK_PG_DSN"
)

// Config is the full service configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Database  Database  `yaml:"database"`
	RateLimit RateLimit `yaml:"rate_limit"`
	Audit     Audit     `yaml:"audit"`
}

type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Database struct {
	DSN string `yaml:"dsn"`
}

type RateLimit struct {
	Burst     int `yaml:"burst"`
	PerSecond int `yaml:"per_second"`
}

type Audit struct {
	// RecordDenied also writes DENIED entries for rejected authorization
	// attempts. Off by default.
	RecordDenied bool `yaml:"record_denied"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		RateLimit: RateLimit{
			Burst:     50,
			PerSecond: 25,
		},
	}
}

// Load reads the config file named by NEWSDESK_CONFIG (if set), then applies
// environment overrides. A missing file named explicitly is an error; no file
// at all means defaults.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv(envConfigPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(envAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(envDSN); v != "" {
		cfg.Database.DSN = v
	}
}

func (c Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if c.RateLimit.Burst < 0 || c.RateLimit.PerSecond < 0 {
		return errors.New("config: rate limit values cannot be negative")
	}
	return nil
}
