// pkg/entity/projectile.go
package entity

import (
	"time"

	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// ProjectileSpec describes the shape and speed of fired projectiles.
type ProjectileSpec struct {
	Width  float64
	Height float64
	Speed  float64 // pixels per tick
}

// DefaultProjectileSpec returns the laser bolt fired by ships.
func DefaultProjectileSpec() ProjectileSpec {
	return ProjectileSpec{Width: 15, Height: 70, Speed: 18}
}

// Projectile represents a weapon projectile in the game
type Projectile struct {
	BaseEntity
	Width   float64
	Height  float64
	Angle   float64
	Speed   float64
	Damage  float64
	OwnerID ID
}

// NewProjectile creates a projectile centred at pos travelling along angle.
func NewProjectile(pos physics.Vector2D, angle, damage float64, owner ID, spec ProjectileSpec) *Projectile {
	return &Projectile{
		BaseEntity: NewBaseEntity(pos),
		Width:      spec.Width,
		Height:     spec.Height,
		Angle:      angle,
		Speed:      spec.Speed,
		Damage:     damage,
		OwnerID:    owner,
	}
}

// Kind implements Body.
func (p *Projectile) Kind() Kind {
	return KindProjectile
}

// Shape returns the exact collision shape of the projectile.
func (p *Projectile) Shape() physics.OrientedRect {
	return physics.OrientedRect{
		Center: p.Position,
		Width:  p.Width,
		Height: p.Height,
		Angle:  p.Angle,
	}
}

// Bounds implements Body.
func (p *Projectile) Bounds() physics.Area {
	return p.Shape().Bounds()
}

// Update moves the projectile and deactivates it once it has left world.
func (p *Projectile) Update(world physics.Area, _ time.Duration) {
	if !p.Active {
		return
	}
	if !p.Bounds().Overlaps(world) {
		p.Kill()
		return
	}
	p.Position = p.Position.Add(physics.Heading(p.Angle, p.Speed))
}
