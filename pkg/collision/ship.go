package collision

import (
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
)

// ShipAsteroidCollision handles a ship ramming an asteroid. The asteroid
// always breaks and the ship loses health equal to its radius. No score is
// awarded.
type ShipAsteroidCollision struct {
	world    World
	ship     *entity.Ship
	asteroid *entity.Asteroid
}

// NewShipAsteroidCollision is the Factory for (Ship, Asteroid).
func NewShipAsteroidCollision(w World, a, b entity.Body) Handler {
	ship, ok := a.(*entity.Ship)
	if !ok {
		return nil
	}
	asteroid, ok := b.(*entity.Asteroid)
	if !ok {
		return nil
	}
	return &ShipAsteroidCollision{world: w, ship: ship, asteroid: asteroid}
}

// Resolve implements Handler.
func (c *ShipAsteroidCollision) Resolve() {
	s, a := c.ship, c.asteroid
	if !s.Alive() || !a.Alive() {
		return
	}
	if !s.Circle().Collides(a.Circle()) {
		return
	}

	if s.TakeDamage(a.Radius) {
		s.Deactivate()
		c.world.Destroy(s)
		c.world.PowerupManager().Unregister(s.GetID())
		c.world.Publish(event.NewShipEvent(event.ShipDestroyed, c, s.GetID(), s.Score))
		c.world.Publish(event.NewExplosionEvent(c, s.Position, s.Radius*c.world.Rules().ShipExplosionScale))
	}

	destroyAsteroid(c.world, a, c)
}
