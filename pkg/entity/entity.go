// pkg/entity/entity.go
package entity

import (
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// ID is a unique identifier for a body
type ID uint64

// Kind is the closed set of collidable body kinds.
type Kind int

const (
	KindShip Kind = iota
	KindAsteroid
	KindProjectile
	KindPowerup

	// KindCount is the number of kinds; sizes dispatch tables.
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindAsteroid:
		return "asteroid"
	case KindProjectile:
		return "projectile"
	case KindPowerup:
		return "powerup"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < KindCount
}

// Body is the capability every collidable entity satisfies. Identity is the
// pointer itself; GetID exposes a stable number for maps and events.
type Body interface {
	GetBasicEntity() *ecs.BasicEntity
	GetID() ID
	Kind() Kind
	Bounds() physics.Area
	Alive() bool
	Kill()
	// Update advances the body by one tick. Bodies that leave world or
	// outlive their lifetime kill themselves.
	Update(world physics.Area, now time.Duration)
}

// BaseEntity contains common functionality for all bodies
type BaseEntity struct {
	ecs.BasicEntity
	Position physics.Vector2D
	Active   bool
}

// NewBaseEntity returns a live entity at pos with a fresh ecs identity.
func NewBaseEntity(pos physics.Vector2D) BaseEntity {
	return BaseEntity{
		BasicEntity: ecs.NewBasic(),
		Position:    pos,
		Active:      true,
	}
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return ID(e.BasicEntity.ID())
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// Alive reports whether the entity still takes part in the simulation.
func (e *BaseEntity) Alive() bool {
	return e.Active
}

// Kill marks the entity as destroyed. Killing twice is harmless.
func (e *BaseEntity) Kill() {
	e.Active = false
}
