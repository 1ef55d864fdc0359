// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig holds the runner settings that come from the
// environment rather than the game file.
type EnvironmentConfig struct {
	MetricsAddr     string
	LogLevel        string
	ShutdownTimeout time.Duration
	// MaxTicks stops the runner after that many ticks; zero runs until
	// the game ends or the process is interrupted.
	MaxTicks int
	// Realtime paces ticks with the wall clock instead of running flat out.
	Realtime bool
}

// LoadConfigFromEnv reads the runner settings with defaults.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		MetricsAddr:     getEnvOrDefault("ASTEROIDS_METRICS_ADDR", ":9090"),
		LogLevel:        getEnvOrDefault("ASTEROIDS_LOG_LEVEL", "INFO"),
		ShutdownTimeout: getEnvAsDurationOrDefault("ASTEROIDS_SHUTDOWN_TIMEOUT", 5*time.Second),
		MaxTicks:        getEnvAsIntOrDefault("ASTEROIDS_MAX_TICKS", 0),
		Realtime:        getEnvAsBoolOrDefault("ASTEROIDS_REALTIME", false),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}
	return config, nil
}

func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if config.ShutdownTimeout < 100*time.Millisecond || config.ShutdownTimeout > time.Minute {
		return &ValidationError{
			Field:   "ShutdownTimeout",
			Value:   config.ShutdownTimeout,
			Message: "must be between 100ms and 1m",
		}
	}
	if config.MaxTicks < 0 {
		return &ValidationError{
			Field:   "MaxTicks",
			Value:   config.MaxTicks,
			Message: "must not be negative",
		}
	}
	return nil
}

// ApplyEnvironmentOverrides overrides game settings from ASTEROIDS_*
// variables. Unset or malformed variables leave the value untouched.
func ApplyEnvironmentOverrides(gameConfig *GameConfig) error {
	if gameConfig == nil {
		return fmt.Errorf("game config is nil")
	}

	w := &gameConfig.World
	w.Width = getEnvAsIntOrDefault("ASTEROIDS_WORLD_WIDTH", w.Width)
	w.Height = getEnvAsIntOrDefault("ASTEROIDS_WORLD_HEIGHT", w.Height)
	w.SearchAccuracy = getEnvAsIntOrDefault("ASTEROIDS_SEARCH_ACCURACY", w.SearchAccuracy)
	w.TickRate = getEnvAsIntOrDefault("ASTEROIDS_TICK_RATE", w.TickRate)
	w.DedupePairs = getEnvAsBoolOrDefault("ASTEROIDS_DEDUPE_PAIRS", w.DedupePairs)
	if v := os.Getenv("ASTEROIDS_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return &ValidationError{Field: "World.Seed", Value: v, Message: "must be an unsigned integer"}
		}
		w.Seed = seed
	}

	gameConfig.Asteroids.MinSplitRadius = getEnvAsFloatOrDefault("ASTEROIDS_MIN_SPLIT_RADIUS", gameConfig.Asteroids.MinSplitRadius)
	gameConfig.Projectile.Speed = getEnvAsFloatOrDefault("ASTEROIDS_PROJECTILE_SPEED", gameConfig.Projectile.Speed)
	gameConfig.Ship.Health = getEnvAsFloatOrDefault("ASTEROIDS_SHIP_HEALTH", gameConfig.Ship.Health)

	return gameConfig.Validate()
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
