package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the tooling around the engine.
// The engine itself takes no configuration; these settings drive the
// simulator executable.
type Config struct {
	Simulation SimulationConfig
}

// SimulationConfig controls cmd/simulate
type SimulationConfig struct {
	// Seed for the deterministic roller; 0 means use crypto randomness
	Seed int64

	// Encounters is how many independent encounters to run
	Encounters int

	// PartySize is how many sample characters to field
	PartySize int

	// MaxRounds caps a single encounter before it is called a stalemate
	MaxRounds int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Simulation: SimulationConfig{
			Seed:       getEnvAsInt64OrDefault("SIM_SEED", 0),
			Encounters: getEnvAsIntOrDefault("SIM_ENCOUNTERS", 10),
			PartySize:  getEnvAsIntOrDefault("SIM_PARTY_SIZE", 2),
			MaxRounds:  getEnvAsIntOrDefault("SIM_MAX_ROUNDS", 30),
		},
	}
	return cfg, nil
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
