// Package config loads the YAML settings shared by the server, the agents
// and self-play.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Search  SearchConfig  `yaml:"search"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Addr             string `yaml:"addr"`
	TurnTimeLimitMS  int    `yaml:"turn_time_limit_ms"`
	FallbackAttempts int    `yaml:"fallback_attempts"`
	Layout           string `yaml:"layout"` // optional starting board file
	Seed             uint64 `yaml:"seed"`   // 0 seeds from the clock
}

type SearchConfig struct {
	Exploration float64 `yaml:"exploration"`
	Goroutines  int     `yaml:"goroutines"`
	Episodes    int     `yaml:"episodes"` // 0 means no cap
	MarginMS    int     `yaml:"margin_ms"`
	Symmetry    bool    `yaml:"symmetry"`
	Seed        uint64  `yaml:"seed"` // 0 seeds from the clock
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:             ":4321",
			TurnTimeLimitMS:  10000,
			FallbackAttempts: 100,
		},
		Search: SearchConfig{
			Exploration: 0.7071,
			Goroutines:  1,
			MarginMS:    1000,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load overlays the file at path on the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.TurnTimeLimitMS <= 0 {
		errs = append(errs, fmt.Errorf("server.turn_time_limit_ms must be positive, got %d", c.Server.TurnTimeLimitMS))
	}
	if c.Server.FallbackAttempts < 0 {
		errs = append(errs, fmt.Errorf("server.fallback_attempts must not be negative, got %d", c.Server.FallbackAttempts))
	}
	if c.Search.Exploration < 0 {
		errs = append(errs, fmt.Errorf("search.exploration must not be negative, got %g", c.Search.Exploration))
	}
	if c.Search.Goroutines <= 0 {
		errs = append(errs, fmt.Errorf("search.goroutines must be positive, got %d", c.Search.Goroutines))
	}
	if c.Search.Episodes < 0 {
		errs = append(errs, fmt.Errorf("search.episodes must not be negative, got %d", c.Search.Episodes))
	}
	if c.Search.MarginMS < 0 || c.Search.MarginMS >= c.Server.TurnTimeLimitMS {
		errs = append(errs, fmt.Errorf("search.margin_ms must be in [0, %d), got %d", c.Server.TurnTimeLimitMS, c.Search.MarginMS))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

func (c ServerConfig) TurnTimeLimit() time.Duration {
	return time.Duration(c.TurnTimeLimitMS) * time.Millisecond
}

func (c SearchConfig) Margin() time.Duration {
	return time.Duration(c.MarginMS) * time.Millisecond
}
