// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/segmentio/encoding/json"
)

// GameConfig contains configuration for an asteroids simulation
type GameConfig struct {
	World      WorldConfig      `json:"world"`
	Asteroids  AsteroidConfig   `json:"asteroids"`
	Projectile ProjectileConfig `json:"projectile"`
	Ship       ShipConfig       `json:"ship"`
	Powerups   PowerupConfig    `json:"powerups"`
	Levels     LevelConfig      `json:"levels"`
}

// WorldConfig describes the playfield and the tick loop
type WorldConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// SearchAccuracy is the quadtree's minimum cell width in pixels.
	SearchAccuracy int    `json:"searchAccuracy"`
	TickRate       int    `json:"tickRate"`
	Seed           uint64 `json:"seed"`
	// DedupePairs resolves a pair at most once per tick even when both
	// bodies share several collision leaves.
	DedupePairs bool `json:"dedupePairs"`
}

// AsteroidType is one family of spawned asteroids
type AsteroidType struct {
	Name      string  `json:"name"`
	MinRadius int     `json:"minRadius"`
	MaxRadius int     `json:"maxRadius"`
	MinSpeed  float64 `json:"minSpeed"`
	MaxSpeed  float64 `json:"maxSpeed"`
}

// AsteroidConfig contains asteroid spawning and splitting rules
type AsteroidConfig struct {
	MinSplitRadius   float64        `json:"minSplitRadius"`
	MinSplitCount    int            `json:"minSplitCount"`
	MaxSplitCount    int            `json:"maxSplitCount"`
	SplitSpeedFactor float64        `json:"splitSpeedFactor"`
	SeparationMargin float64        `json:"separationMargin"`
	SpawnIntervalMS  int            `json:"spawnIntervalMs"`
	MinSpawnMS       int            `json:"minSpawnIntervalMs"`
	Types            []AsteroidType `json:"types"`
}

// ProjectileConfig contains the shape and speed of fired projectiles
type ProjectileConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Speed  float64 `json:"speed"`
}

// ShipConfig contains the starting statistics of the player ship
type ShipConfig struct {
	Radius       float64 `json:"radius"`
	Health       float64 `json:"health"`
	Speed        float64 `json:"speed"`
	Damage       float64 `json:"damage"`
	ShootDelayMS int     `json:"shootDelayMs"`
	// AutoFire fires whenever the gun has cooled down.
	AutoFire bool `json:"autoFire"`
}

// PowerupConfig contains powerup tuning
type PowerupConfig struct {
	Size              float64 `json:"size"`
	LifetimeMS        int     `json:"lifetimeMs"`
	DurationMS        int     `json:"durationMs"`
	AttackSpeedDelay  int     `json:"attackSpeedDelayMs"`
	AttackSpeedDamage float64 `json:"attackSpeedDamage"`
	SpeedBoost        float64 `json:"speedBoost"`
	HealthRestore     float64 `json:"healthRestore"`
	SpawnIntervalMS   int     `json:"spawnIntervalMs"`
	MinSpawnMS        int     `json:"minSpawnIntervalMs"`
}

// LevelConfig contains level progression
type LevelConfig struct {
	Count     int `json:"count"`
	ScoreStep int `json:"scoreStep"`
}

// Millis converts a millisecond count from the config into a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// TickDuration returns the simulated time covered by one tick.
func (w WorldConfig) TickDuration() time.Duration {
	if w.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(w.TickRate)
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		World: WorldConfig{
			Width:          1100,
			Height:         900,
			SearchAccuracy: 50,
			TickRate:       60,
			Seed:           1,
			DedupePairs:    true,
		},
		Asteroids: AsteroidConfig{
			MinSplitRadius:   30,
			MinSplitCount:    2,
			MaxSplitCount:    4,
			SplitSpeedFactor: 0.9,
			SeparationMargin: 2,
			SpawnIntervalMS:  2500,
			MinSpawnMS:       150,
			Types: []AsteroidType{
				{Name: "tiny", MinRadius: 10, MaxRadius: 20, MinSpeed: 3.8, MaxSpeed: 4.8},
				{Name: "small", MinRadius: 21, MaxRadius: 30, MinSpeed: 3.4, MaxSpeed: 4.3},
				{Name: "medium", MinRadius: 31, MaxRadius: 40, MinSpeed: 2.8, MaxSpeed: 3.6},
				{Name: "large", MinRadius: 41, MaxRadius: 70, MinSpeed: 2.5, MaxSpeed: 3.1},
			},
		},
		Projectile: ProjectileConfig{
			Width:  15,
			Height: 70,
			Speed:  18,
		},
		Ship: ShipConfig{
			Radius:       25,
			Health:       200,
			Speed:        2.7,
			Damage:       22,
			ShootDelayMS: 420,
			AutoFire:     true,
		},
		Powerups: PowerupConfig{
			Size:              30,
			LifetimeMS:        10000,
			DurationMS:        5000,
			AttackSpeedDelay:  100,
			AttackSpeedDamage: 50,
			SpeedBoost:        7,
			HealthRestore:     50,
			SpawnIntervalMS:   10000,
			MinSpawnMS:        4000,
		},
		Levels: LevelConfig{
			Count:     100,
			ScoreStep: 100,
		},
	}
}
