package main

import (
	"fmt"

	"tunio/internal/config"
	"tunio/pkg/tunio"
)

type Config struct {
	Name        string `yaml:"name"`         // empty lets the OS pick
	MTU         int    `yaml:"mtu"`
	Filter      int    `yaml:"filter"`       // 0 (any), 4 or 6
	Address     string `yaml:"address"`      // optional CIDR to assign
	LogLevel    string `yaml:"log_level"`
	LogJSON     bool   `yaml:"log_json"`
	MetricsAddr string `yaml:"metrics_addr"` // optional /metrics listener
	LogPPS      int    `yaml:"log_pps"`      // packet log lines per second
	HexDump     bool   `yaml:"hex_dump"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	if err := config.Load(path, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MTU == 0 {
		cfg.MTU = tunio.DefaultReadMTU
	}
	if cfg.LogPPS == 0 {
		cfg.LogPPS = 10
	}
}

func validateConfig(cfg Config) error {
	switch cfg.Filter {
	case 0, 4, 6:
	default:
		return fmt.Errorf("filter must be 0, 4 or 6, got %d", cfg.Filter)
	}
	if cfg.MTU < 0 {
		return fmt.Errorf("mtu must be positive, got %d", cfg.MTU)
	}
	return nil
}
