// pkg/engine/state.go
package engine

import (
	"maps"
	"slices"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// GameState is a read-only copy of the simulation taken between ticks.
type GameState struct {
	Tick        uint64
	Time        time.Duration
	Status      GameStatus
	Level       int
	Ships       []ShipState
	Asteroids   []AsteroidState
	Powerups    []PowerupState
	Projectiles int
}

// ShipState represents the state of a ship
type ShipState struct {
	ID       entity.ID
	Position physics.Vector2D
	Rotation float64
	Radius   float64
	Health   float64
	Score    int
	Active   []entity.PowerupType
}

// AsteroidState represents the state of an asteroid
type AsteroidState struct {
	ID       entity.ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Radius   float64
}

// PowerupState represents the state of an uncollected powerup
type PowerupState struct {
	ID       entity.ID
	Type     entity.PowerupType
	Position physics.Vector2D
}

// GetGameState returns the current game state. Bodies are ordered by ID.
func (g *Game) GetGameState() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.createGameStateSnapshot()
}

// createGameStateSnapshot builds the snapshot; the caller holds EntityLock.
func (g *Game) createGameStateSnapshot() *GameState {
	return &GameState{
		Tick:        g.CurrentTick,
		Time:        g.clock,
		Status:      g.Status,
		Level:       g.Levels.Current(),
		Ships:       g.getShipStates(),
		Asteroids:   g.getAsteroidStates(),
		Powerups:    g.getPowerupStates(),
		Projectiles: len(g.Projectiles),
	}
}

func (g *Game) getShipStates() []ShipState {
	states := make([]ShipState, 0, len(g.Ships))
	for _, id := range slices.Sorted(maps.Keys(g.Ships)) {
		ship := g.Ships[id]
		states = append(states, ShipState{
			ID:       id,
			Position: ship.Position,
			Rotation: ship.Rotation,
			Radius:   ship.Radius,
			Health:   ship.Health,
			Score:    ship.Score,
			Active:   g.powerups.Active(id),
		})
	}
	return states
}

func (g *Game) getAsteroidStates() []AsteroidState {
	states := make([]AsteroidState, 0, len(g.Asteroids))
	for _, id := range slices.Sorted(maps.Keys(g.Asteroids)) {
		a := g.Asteroids[id]
		states = append(states, AsteroidState{
			ID:       id,
			Position: a.Position,
			Velocity: a.Velocity(),
			Radius:   a.Radius,
		})
	}
	return states
}

func (g *Game) getPowerupStates() []PowerupState {
	states := make([]PowerupState, 0, len(g.Powerups))
	for _, id := range slices.Sorted(maps.Keys(g.Powerups)) {
		p := g.Powerups[id]
		states = append(states, PowerupState{ID: id, Type: p.Type, Position: p.Position})
	}
	return states
}
