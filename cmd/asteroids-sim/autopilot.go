// cmd/asteroids-sim/autopilot.go
package main

import (
	"math"

	"github.com/opd-ai/go-asteroids/pkg/engine"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// dodgeDistance is how close an asteroid may get before a ship backs off.
const dodgeDistance = 150.0

// autopilot steers every ship under the lowest asteroid and fires when the
// game does not fire on its own. Ships back away from asteroids closer than
// dodgeDistance.
type autopilot struct {
	fire bool
}

func (a autopilot) beforeTick(g *engine.Game) {
	state := g.GetGameState()
	for _, ship := range state.Ships {
		thrust := a.steer(ship, state.Asteroids)
		// Ships only vanish between ticks; a miss here means the ship died.
		if err := g.Steer(ship.ID, thrust, 0); err != nil {
			continue
		}
		if a.fire {
			_ = g.Fire(ship.ID)
		}
	}
}

func (a autopilot) steer(ship engine.ShipState, asteroids []engine.AsteroidState) physics.Vector2D {
	target, ok := lowestAsteroid(asteroids)
	if !ok {
		return physics.Vector2D{}
	}

	if d := target.Position.Sub(ship.Position); d.Length() < dodgeDistance+target.Radius {
		return d.Scale(-1).Normalize()
	}

	dx := target.Position.X - ship.Position.X
	if math.Abs(dx) < ship.Radius/2 {
		return physics.Vector2D{}
	}
	return physics.Vector2D{X: math.Copysign(1, dx)}
}

// lowestAsteroid returns the asteroid closest to the bottom of the screen.
func lowestAsteroid(asteroids []engine.AsteroidState) (engine.AsteroidState, bool) {
	if len(asteroids) == 0 {
		return engine.AsteroidState{}, false
	}
	lowest := asteroids[0]
	for _, a := range asteroids[1:] {
		if a.Position.Y > lowest.Position.Y {
			lowest = a
		}
	}
	return lowest, true
}
