package main

import (
	"fmt"

	"tunio/internal/config"
	"tunio/pkg/tunio"
)

type Config struct {
	Left     DeviceConfig `yaml:"left"`
	Right    DeviceConfig `yaml:"right"`
	MTU      int          `yaml:"mtu"`
	LogLevel string       `yaml:"log_level"`
	LogJSON  bool         `yaml:"log_json"`
}

type DeviceConfig struct {
	Name    string `yaml:"name"`    // empty lets the OS pick
	Address string `yaml:"address"` // optional CIDR to assign
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	if err := config.Load(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.MTU == 0 {
		cfg.MTU = tunio.DefaultReadMTU
	}
	if cfg.MTU < 0 {
		return Config{}, fmt.Errorf("mtu must be positive, got %d", cfg.MTU)
	}
	return cfg, nil
}
