// pkg/config/validate.go
package config

import "fmt"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

// Validate checks that the configuration describes a runnable simulation.
func (c *GameConfig) Validate() error {
	if c == nil {
		return &ValidationError{Field: "GameConfig", Value: nil, Message: "config is nil"}
	}

	checks := []struct {
		ok      bool
		field   string
		value   interface{}
		message string
	}{
		{c.World.Width > 0, "World.Width", c.World.Width, "must be positive"},
		{c.World.Height > 0, "World.Height", c.World.Height, "must be positive"},
		{c.World.SearchAccuracy >= 1, "World.SearchAccuracy", c.World.SearchAccuracy, "must be at least 1"},
		{c.World.TickRate >= 1 && c.World.TickRate <= 1000, "World.TickRate", c.World.TickRate, "must be between 1 and 1000"},
		{c.Asteroids.MinSplitCount >= 1, "Asteroids.MinSplitCount", c.Asteroids.MinSplitCount, "must be at least 1"},
		{c.Asteroids.MaxSplitCount >= c.Asteroids.MinSplitCount, "Asteroids.MaxSplitCount", c.Asteroids.MaxSplitCount, "must not be below MinSplitCount"},
		{c.Asteroids.SplitSpeedFactor > 0, "Asteroids.SplitSpeedFactor", c.Asteroids.SplitSpeedFactor, "must be positive"},
		{c.Asteroids.SeparationMargin >= 0, "Asteroids.SeparationMargin", c.Asteroids.SeparationMargin, "must not be negative"},
		{c.Asteroids.SpawnIntervalMS > 0, "Asteroids.SpawnIntervalMS", c.Asteroids.SpawnIntervalMS, "must be positive"},
		{len(c.Asteroids.Types) > 0, "Asteroids.Types", len(c.Asteroids.Types), "at least one asteroid type is required"},
		{c.Projectile.Width > 0 && c.Projectile.Height > 0, "Projectile", c.Projectile, "size must be positive"},
		{c.Ship.Radius > 0, "Ship.Radius", c.Ship.Radius, "must be positive"},
		{c.Ship.Health > 0, "Ship.Health", c.Ship.Health, "must be positive"},
		{c.Ship.ShootDelayMS >= 0, "Ship.ShootDelayMS", c.Ship.ShootDelayMS, "must not be negative"},
		{c.Powerups.Size > 0, "Powerups.Size", c.Powerups.Size, "must be positive"},
		{c.Powerups.LifetimeMS > 0, "Powerups.LifetimeMS", c.Powerups.LifetimeMS, "must be positive"},
		{c.Powerups.SpawnIntervalMS > 0, "Powerups.SpawnIntervalMS", c.Powerups.SpawnIntervalMS, "must be positive"},
		{c.Levels.Count >= 1, "Levels.Count", c.Levels.Count, "must be at least 1"},
		{c.Levels.ScoreStep >= 1, "Levels.ScoreStep", c.Levels.ScoreStep, "must be at least 1"},
	}
	for _, check := range checks {
		if !check.ok {
			return &ValidationError{Field: check.field, Value: check.value, Message: check.message}
		}
	}

	for i, t := range c.Asteroids.Types {
		if t.MinRadius <= 0 || t.MaxRadius < t.MinRadius {
			return &ValidationError{Field: fmt.Sprintf("Asteroids.Types[%d].Radius", i), Value: t, Message: "radius range is invalid"}
		}
		if t.MinSpeed < 0 || t.MaxSpeed < t.MinSpeed {
			return &ValidationError{Field: fmt.Sprintf("Asteroids.Types[%d].Speed", i), Value: t, Message: "speed range is invalid"}
		}
	}
	return nil
}
