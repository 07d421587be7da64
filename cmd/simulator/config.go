package main

import (
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config controls a local run of the simulator: which scripted scenario to
// drive and the deterministic starting conditions for the mock host's
// clock and environmental randomness. Grounded on the notification
// service's cleanenv.ReadConfig/cleanenv.ReadEnv fallback pair.
type Config struct {
	Scenario        string `yaml:"scenario" env:"SCENARIO" env-default:"all"`
	StartTimestamp  uint64 `yaml:"start_timestamp" env:"START_TIMESTAMP" env-default:"1700000000"`
	ChainRandomness string `yaml:"chain_randomness" env:"CHAIN_RANDOMNESS" env-default:"sim-randomness-seed"`
	LogLevel        string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

func loadConfig(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		log.Printf("could not read config file %q: %v, falling back to environment", path, err)
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	return &cfg, nil
}
