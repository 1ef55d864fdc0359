package collision

import (
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
)

// AsteroidProjectileCollision damages an asteroid hit by a projectile.
type AsteroidProjectileCollision struct {
	world      World
	asteroid   *entity.Asteroid
	projectile *entity.Projectile
}

// NewAsteroidProjectileCollision is the Factory for (Asteroid, Projectile).
func NewAsteroidProjectileCollision(w World, a, b entity.Body) Handler {
	asteroid, ok := a.(*entity.Asteroid)
	if !ok {
		return nil
	}
	projectile, ok := b.(*entity.Projectile)
	if !ok {
		return nil
	}
	return &AsteroidProjectileCollision{world: w, asteroid: asteroid, projectile: projectile}
}

// Resolve implements Handler.
func (c *AsteroidProjectileCollision) Resolve() {
	a, p := c.asteroid, c.projectile
	if !a.Alive() || !p.Alive() {
		return
	}
	if !p.Shape().IntersectsCircle(a.Circle()) {
		return
	}

	c.world.Destroy(p)
	c.world.Publish(event.NewExplosionEvent(c, p.Position, p.Height))

	if !a.TakeDamage(p.Damage) {
		return
	}
	c.world.Award(p.OwnerID, a.Reward)
	destroyAsteroid(c.world, a, c)
}
