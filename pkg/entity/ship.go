// pkg/entity/ship.go
package entity

import (
	"time"

	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// ShipStatus tracks whether a ship still takes part in the game.
type ShipStatus int

const (
	ShipActive ShipStatus = iota
	ShipDeactivated
)

// ShipStats contains the base statistics a ship starts with
type ShipStats struct {
	Radius     float64
	Health     float64
	Speed      float64 // pixels per tick
	Damage     float64
	ShootDelay time.Duration
}

// DefaultShipStats returns the stats of the player ship.
func DefaultShipStats() ShipStats {
	return ShipStats{
		Radius:     25,
		Health:     200,
		Speed:      2.7,
		Damage:     22,
		ShootDelay: 420 * time.Millisecond,
	}
}

// Ship represents a player's spaceship
type Ship struct {
	BaseEntity
	Radius       float64
	Health       float64
	SourceHealth float64
	Speed        float64
	Damage       float64
	ShootDelay   time.Duration
	Score        int
	Status       ShipStatus
	// Rotation is the heading the guns point at, see physics.Heading.
	Rotation float64
	// Thrust is the steering direction; only its direction matters.
	Thrust physics.Vector2D

	lastShot time.Duration
	hasShot  bool
}

// NewShip creates a new ship with the given stats
func NewShip(pos physics.Vector2D, stats ShipStats) *Ship {
	return &Ship{
		BaseEntity:   NewBaseEntity(pos),
		Radius:       stats.Radius,
		Health:       stats.Health,
		SourceHealth: stats.Health,
		Speed:        stats.Speed,
		Damage:       stats.Damage,
		ShootDelay:   stats.ShootDelay,
		Status:       ShipActive,
	}
}

// Kind implements Body.
func (s *Ship) Kind() Kind {
	return KindShip
}

// Circle returns the collision shape of the ship.
func (s *Ship) Circle() physics.Circle {
	return physics.Circle{Center: s.Position, Radius: s.Radius}
}

// Bounds implements Body.
func (s *Ship) Bounds() physics.Area {
	return s.Circle().Bounds()
}

// Update moves the ship along its thrust direction and keeps it inside world.
func (s *Ship) Update(world physics.Area, _ time.Duration) {
	if !s.Active {
		return
	}

	s.Position = s.Position.Add(s.Thrust.Normalize().Scale(s.Speed))

	minX := float64(world.TopLeft.X) + s.Radius
	maxX := float64(world.BottomRight.X) - s.Radius
	minY := float64(world.TopLeft.Y) + s.Radius
	maxY := float64(world.BottomRight.Y) - s.Radius
	s.Position.X = clamp(s.Position.X, minX, maxX)
	s.Position.Y = clamp(s.Position.Y, minY, maxY)
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TakeDamage applies damage to the ship and reports whether it is destroyed.
// Health never drops below zero.
func (s *Ship) TakeDamage(amount float64) bool {
	s.Health -= amount
	if s.Health <= 0 {
		s.Health = 0
		return true
	}
	return false
}

// Heal restores health up to the ship's starting value.
func (s *Ship) Heal(amount float64) {
	s.Health += amount
	if s.Health > s.SourceHealth {
		s.Health = s.SourceHealth
	}
}

// Deactivate takes the ship out of the game.
func (s *Ship) Deactivate() {
	s.Status = ShipDeactivated
	s.Kill()
}

// Fire returns a projectile leaving the ship's nose, or nil while the gun is
// cooling down or the ship is out of the game.
func (s *Ship) Fire(now time.Duration, spec ProjectileSpec) *Projectile {
	if !s.Active || s.Health <= 0 {
		return nil
	}
	if s.hasShot && now-s.lastShot <= s.ShootDelay {
		return nil
	}
	s.lastShot = now
	s.hasShot = true

	nose := s.Position.Add(physics.Heading(s.Rotation, s.Radius))
	return NewProjectile(nose, s.Rotation, s.Damage, s.GetID(), spec)
}
