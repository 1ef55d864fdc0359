// pkg/engine/systems.go
package engine

import (
	"maps"
	"slices"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
)

// System priorities; the ecs world runs higher priorities first.
const (
	powerupPriority   = 50
	spawnPriority     = 40
	weaponPriority    = 35
	collisionPriority = 30
	movementPriority  = 20
	levelPriority     = 10
)

// bodyTracker is implemented by systems that keep their own body list.
type bodyTracker interface {
	Add(b entity.Body)
}

// bodyList keeps bodies in insertion order. That order fixes the order in
// which bodies enter the spatial index and therefore the pair order.
type bodyList struct {
	bodies []entity.Body
}

func (l *bodyList) Add(b entity.Body) {
	l.bodies = append(l.bodies, b)
}

// Remove satisfies the ecs.System interface
func (l *bodyList) Remove(e ecs.BasicEntity) {
	id := e.ID()
	l.bodies = slices.DeleteFunc(l.bodies, func(b entity.Body) bool {
		return b.GetBasicEntity().ID() == id
	})
}

// powerupSystem rolls back expired powerup effects.
type powerupSystem struct {
	game *Game
}

func (s *powerupSystem) Priority() int          { return powerupPriority }
func (s *powerupSystem) Remove(ecs.BasicEntity) {}

func (s *powerupSystem) Update(float32) {
	g := s.game
	for _, expiry := range g.powerups.Control(g.clock) {
		g.EventBus.Publish(event.NewPowerupEvent(event.PowerupExpired, g, expiry.ShipID, expiry.Type, false))
	}
}

// spawnSystem asks the level-driven spawners for new bodies.
type spawnSystem struct {
	game *Game
}

func (s *spawnSystem) Priority() int          { return spawnPriority }
func (s *spawnSystem) Remove(ecs.BasicEntity) {}

func (s *spawnSystem) Update(float32) {
	g := s.game
	if !g.spawning {
		return
	}
	if a := g.asteroidSpawner.Generate(g.clock, g.rng); a != nil {
		g.Spawn(a)
	}
	if p := g.powerupSpawner.Generate(g.clock, g.rng); p != nil {
		g.Spawn(p)
	}
	g.flush()
}

// weaponSystem fires every auto-firing ship whose gun is ready.
type weaponSystem struct {
	game *Game
}

func (s *weaponSystem) Priority() int          { return weaponPriority }
func (s *weaponSystem) Remove(ecs.BasicEntity) {}

func (s *weaponSystem) Update(float32) {
	g := s.game
	if !g.Config.Ship.AutoFire {
		return
	}
	for _, id := range slices.Sorted(maps.Keys(g.Ships)) {
		if ship := g.Ships[id]; ship.Alive() {
			g.fire(ship)
		}
	}
	g.flush()
}

// pairKey identifies an unordered pair of bodies.
type pairKey struct {
	lo, hi entity.ID
}

func makePairKey(a, b entity.ID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// collisionSystem rebuilds the spatial index from scratch and resolves every
// unordered pair sharing a collision leaf.
type collisionSystem struct {
	bodyList
	game *Game
}

func (s *collisionSystem) Priority() int { return collisionPriority }

func (s *collisionSystem) Update(float32) {
	g := s.game
	index := g.SpatialIndex

	index.Clear()
	for _, b := range s.bodies {
		if b.Alive() {
			index.Add(b)
		}
	}

	leaves := index.CollisionNodes()
	g.LastTick.Leaves = len(leaves)
	dedupe := g.Config.World.DedupePairs
	announce := g.EventBus.HandlerCount(event.PairResolved) > 0
	clear(g.seenPairs)

	for _, leaf := range leaves {
		data := leaf.Data()
		for i := 0; i < len(data)-1; i++ {
			for k := i + 1; k < len(data); k++ {
				a, b := data[i], data[k]
				if dedupe {
					key := makePairKey(a.GetID(), b.GetID())
					if _, seen := g.seenPairs[key]; seen {
						continue
					}
					g.seenPairs[key] = struct{}{}
				}
				g.LastTick.Candidates++
				if g.Dispatcher.Resolve(a, b) {
					g.LastTick.Resolved++
					instrumentPairResolved(a.Kind(), b.Kind())
					if announce {
						g.EventBus.Publish(event.NewPairEvent(g, a, b))
					}
				}
			}
		}
	}

	g.flush()
}

// movementSystem advances every body by one tick. Bodies that leave the
// world or outlive their lifetime are destroyed.
type movementSystem struct {
	bodyList
	game *Game
}

func (s *movementSystem) Priority() int { return movementPriority }

func (s *movementSystem) Update(float32) {
	g := s.game
	for _, b := range s.bodies {
		if !b.Alive() {
			continue
		}
		b.Update(g.world, g.clock)
		if !b.Alive() {
			g.Destroy(b)
		}
	}
	g.flush()
}

// levelSystem advances at most one level per tick once the best ship score
// reaches the current threshold.
type levelSystem struct {
	game *Game
}

func (s *levelSystem) Priority() int          { return levelPriority }
func (s *levelSystem) Remove(ecs.BasicEntity) {}

func (s *levelSystem) Update(float32) {
	g := s.game
	levels := g.Levels
	if levels.Current() >= levels.Count()-1 || !levels.LevelComplete(g.bestScore()) {
		return
	}

	from := levels.Current()
	levels.LevelUp()
	instrumentLevel(levels.Current())
	g.EventBus.Publish(event.NewLevelEvent(g, from, levels.Current()))
	g.logger.Info(g.ctx, "level up",
		"from", from,
		"to", levels.Current(),
		"tick", g.CurrentTick,
		"asteroid_interval", g.asteroidSpawner.Interval().String())
}
