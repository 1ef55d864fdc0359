package collision

import (
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
)

// PowerupShipCollision hands a powerup to the ship that touched it.
type PowerupShipCollision struct {
	world   World
	powerup *entity.Powerup
	ship    *entity.Ship
}

// NewPowerupShipCollision is the Factory for (Powerup, Ship).
func NewPowerupShipCollision(w World, a, b entity.Body) Handler {
	powerup, ok := a.(*entity.Powerup)
	if !ok {
		return nil
	}
	ship, ok := b.(*entity.Ship)
	if !ok {
		return nil
	}
	return &PowerupShipCollision{world: w, powerup: powerup, ship: ship}
}

// Resolve implements Handler.
func (c *PowerupShipCollision) Resolve() {
	p, s := c.powerup, c.ship
	if !p.Alive() || !s.Alive() {
		return
	}
	if !p.Shape().IntersectsCircle(s.Circle()) {
		return
	}

	c.world.Destroy(p)
	refreshed := c.world.PowerupManager().Add(s, p, c.world.Now())
	c.world.Publish(event.NewPowerupEvent(event.PowerupApplied, c, s.GetID(), p.Type, refreshed))
}
