// Package collision resolves candidate pairs produced by the spatial index.
// A Dispatcher maps each unordered pair of body kinds to a handler factory;
// handlers act on the simulation only through the World interface.
package collision

import (
	"math/rand/v2"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
)

// World is the part of the simulation handlers may touch. Destroy and Spawn
// are deferred by the implementation until the current pair pass completes,
// though Destroy marks the body dead immediately.
type World interface {
	Destroy(b entity.Body)
	Spawn(b entity.Body)
	// Award credits points to the ship with the given ID, if it still exists.
	Award(shipID entity.ID, amount int)
	Publish(e event.Event)
	Rand() *rand.Rand
	Now() time.Duration
	PowerupManager() *entity.PowerupManager
	Rules() Rules
}

// Rules holds the tunables handlers read.
type Rules struct {
	Split entity.SplitRules
	// SeparationMargin is the extra distance in pixels added when pushing
	// overlapping asteroids apart.
	SeparationMargin float64
	// AsteroidExplosionScale multiplies the radius of a destroyed asteroid.
	AsteroidExplosionScale float64
	// ShipExplosionScale multiplies the radius of a destroyed ship.
	ShipExplosionScale float64
}

// DefaultRules returns the arcade tuning.
func DefaultRules() Rules {
	return Rules{
		Split:                  entity.DefaultSplitRules(),
		SeparationMargin:       2,
		AsteroidExplosionScale: 2.2,
		ShipExplosionScale:     15,
	}
}

// destroyAsteroid removes a, spawns its fragments and publishes the
// explosion. Both the projectile and ship handlers end an asteroid this way.
func destroyAsteroid(w World, a *entity.Asteroid, source interface{}) {
	w.Destroy(a)

	rules := w.Rules()
	for _, fragment := range a.Split(w.Rand(), rules.Split) {
		w.Spawn(fragment)
	}
	w.Publish(event.NewExplosionEvent(source, a.Position, a.Radius*rules.AsteroidExplosionScale))
}
