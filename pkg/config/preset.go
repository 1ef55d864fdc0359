// pkg/config/preset.go
package config

import "fmt"

// Preset is a named set of difficulty adjustments applied on top of a config.
type Preset struct {
	Name        string
	Description string
	apply       func(*GameConfig)
}

var presets = map[string]Preset{
	"classic": {
		Name:        "Classic",
		Description: "Arcade tuning, a new level every 100 points",
		apply:       func(*GameConfig) {},
	},
	"calm": {
		Name:        "Calm",
		Description: "Slower spawns and a sturdier ship",
		apply: func(c *GameConfig) {
			c.Asteroids.SpawnIntervalMS *= 2
			c.Ship.Health *= 2
			c.Powerups.SpawnIntervalMS /= 2
		},
	},
	"swarm": {
		Name:        "Swarm",
		Description: "Frequent spawns of small asteroids that break into many pieces",
		apply: func(c *GameConfig) {
			c.Asteroids.SpawnIntervalMS = max(c.Asteroids.MinSpawnMS, c.Asteroids.SpawnIntervalMS/4)
			c.Asteroids.MaxSplitCount = 6
			c.Asteroids.Types = c.Asteroids.Types[:min(2, len(c.Asteroids.Types))]
		},
	},
}

// GetPreset returns the preset registered under key, or nil.
func GetPreset(key string) *Preset {
	p, ok := presets[key]
	if !ok {
		return nil
	}
	return &p
}

// ListPresets returns every preset keyed by its identifier.
func ListPresets() map[string]Preset {
	out := make(map[string]Preset, len(presets))
	for k, v := range presets {
		out[k] = v
	}
	return out
}

// ApplyPreset modifies config in place with the named preset.
func ApplyPreset(config *GameConfig, key string) error {
	p, ok := presets[key]
	if !ok {
		return fmt.Errorf("unknown preset %q", key)
	}
	p.apply(config)
	return nil
}
