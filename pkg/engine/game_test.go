// Package engine provides unit tests for game.go
package engine

import (
	"errors"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-asteroids/pkg/collision"
	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

func testConfig() *config.GameConfig {
	cfg := config.DefaultConfig()
	cfg.Ship.AutoFire = false
	return cfg
}

func newTestGame(t *testing.T, cfg *config.GameConfig, opts ...Option) *Game {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	game, err := NewGame(cfg, append([]Option{WithoutSpawning()}, opts...)...)
	require.NoError(t, err)
	return game
}

// recordEvents collects every event of the given types in publish order.
func recordEvents(game *Game, types ...event.Type) *[]event.Event {
	var got []event.Event
	for _, typ := range types {
		game.EventBus.Subscribe(typ, func(e event.Event) { got = append(got, e) })
	}
	return &got
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNewGame_InitializesState(t *testing.T) {
	game := newTestGame(t, nil)

	if game.SpatialIndex == nil {
		t.Error("SpatialIndex not initialized")
	}
	if game.Dispatcher == nil {
		t.Error("Dispatcher not initialized")
	}
	if game.Levels == nil || game.Levels.Count() != 100 {
		t.Errorf("expected 100 levels, got %v", game.Levels)
	}
	if game.Status != GameStatusWaiting {
		t.Errorf("expected waiting status, got %v", game.Status)
	}
	if len(game.Ships)+len(game.Asteroids)+len(game.Projectiles)+len(game.Powerups) != 0 {
		t.Error("expected no bodies in a new game")
	}
	if game.World().Width() != 1100 || game.World().Height() != 900 {
		t.Errorf("unexpected world %+v", game.World())
	}
	if n := len(game.systems.Systems()); n != 6 {
		t.Errorf("expected 6 systems, got %d", n)
	}
}

func TestNewGame_Config(t *testing.T) {
	game, err := NewGame(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().World, game.Config.World)

	cfg := config.DefaultConfig()
	cfg.World.SearchAccuracy = 0
	_, err = NewGame(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid game config")
}

func TestGame_StartStop_Transitions(t *testing.T) {
	game := newTestGame(t, nil)
	events := recordEvents(game, event.GameStarted, event.GameEnded)

	game.Start()
	if !game.Running || game.Status != GameStatusActive {
		t.Error("Game did not start correctly")
	}
	game.Stop()
	if game.Running || game.Status != GameStatusEnded {
		t.Error("Game did not stop correctly")
	}

	game.Start()
	assert.Equal(t, GameStatusEnded, game.Status, "an ended game cannot restart")
	game.Stop()

	require.Len(t, *events, 2)
	assert.Equal(t, event.GameStarted, (*events)[0].GetType())
	assert.Equal(t, event.GameEnded, (*events)[1].GetType())
}

func TestGame_Update_OnlyWhenActive(t *testing.T) {
	game := newTestGame(t, nil)

	game.Update()
	assert.Equal(t, uint64(0), game.CurrentTick, "a waiting game does not tick")

	game.Start()
	game.Update()
	game.Update()
	assert.Equal(t, uint64(2), game.Ticks())
	assert.Equal(t, 2*game.Config.World.TickDuration(), game.Now())

	game.Stop()
	game.Update()
	assert.Equal(t, uint64(2), game.Ticks())
}

func TestGame_ProjectileDestroysAsteroid(t *testing.T) {
	game := newTestGame(t, nil)
	ship := game.AddShip(physics.Vector2D{X: 550, Y: 800})
	asteroid := entity.NewAsteroid(physics.Vector2D{X: 550, Y: 400}, 20, 0, 0, 0)
	game.AddBody(asteroid)
	events := recordEvents(game, event.ScoreAwarded, event.Explosion, event.BodyDestroyed)

	game.Start()
	require.NoError(t, game.Fire(ship.GetID()))
	require.Len(t, game.Projectiles, 1)

	for i := 0; i < 40 && len(game.Asteroids) > 0; i++ {
		game.Update()
	}

	assert.False(t, asteroid.Alive())
	assert.Empty(t, game.Asteroids, "asteroid below the split radius leaves no fragments")
	assert.Empty(t, game.Projectiles)
	assert.Equal(t, 20, ship.Score)

	var scores, destroyed int
	for _, e := range *events {
		switch e.GetType() {
		case event.ScoreAwarded:
			scores++
		case event.BodyDestroyed:
			destroyed++
		}
	}
	assert.Equal(t, 1, scores)
	assert.Equal(t, 2, destroyed, "the projectile and the asteroid")
}

func TestGame_LargeAsteroidSplits(t *testing.T) {
	game := newTestGame(t, nil)
	ship := game.AddShip(physics.Vector2D{X: 550, Y: 850})
	game.AddBody(entity.NewAsteroid(physics.Vector2D{X: 550, Y: 100}, 60, 0, 0, 0))
	game.Start()

	var err error
	for i := 0; i < 400 && ship.Score == 0; i++ {
		if err = game.Fire(ship.GetID()); err != nil && !errors.Is(err, ErrWeaponNotReady) {
			t.Fatalf("unexpected fire error: %v", err)
		}
		game.Update()
	}

	assert.Equal(t, 60, ship.Score)
	assert.GreaterOrEqual(t, len(game.Asteroids), 2, "a large asteroid breaks into fragments")
	assert.LessOrEqual(t, len(game.Asteroids), 4)
	for _, a := range game.Asteroids {
		assert.Less(t, a.Radius, 60.0)
	}
}

func TestGame_DedupePairs(t *testing.T) {
	tests := []struct {
		name   string
		dedupe bool
	}{
		{"dedupe", true},
		{"double_resolution", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.World.DedupePairs = tt.dedupe
			game := newTestGame(t, cfg)

			// Both asteroids straddle the world center, which is a cell
			// boundary at every depth.
			game.AddBody(entity.NewAsteroid(physics.Vector2D{X: 540, Y: 450}, 20, 0, 0, 0))
			game.AddBody(entity.NewAsteroid(physics.Vector2D{X: 560, Y: 450}, 20, 0, 0, 0))

			metric := simPairsResolved.WithLabelValues("asteroid/asteroid")
			before := counterValue(t, metric)

			game.Start()
			game.Update()

			require.GreaterOrEqual(t, game.LastTick.Leaves, 2)
			if tt.dedupe {
				assert.Equal(t, 1, game.LastTick.Candidates)
				assert.Equal(t, 1, game.LastTick.Resolved)
				assert.Equal(t, 1.0, counterValue(t, metric)-before)
			} else {
				assert.Greater(t, game.LastTick.Resolved, 1)
				assert.Equal(t, float64(game.LastTick.Resolved), counterValue(t, metric)-before)
			}
		})
	}
}

func TestGame_AsteroidsBounceApart(t *testing.T) {
	game := newTestGame(t, nil)
	left := entity.NewAsteroid(physics.Vector2D{X: 500, Y: 300}, 25, 0, 0, 0)
	right := entity.NewAsteroid(physics.Vector2D{X: 540, Y: 300}, 25, 0, 0, 0)
	game.AddBody(left)
	game.AddBody(right)
	pairs := recordEvents(game, event.PairResolved)
	game.Start()
	game.Update()

	assert.True(t, left.Alive())
	assert.True(t, right.Alive())
	// Overlap 0.5*(50-40+2) = 6 px on each side.
	assert.InDelta(t, 52.0, left.Position.Distance(right.Position), 1e-9)
	assert.Equal(t, 1, game.LastTick.Resolved)
	assert.Len(t, *pairs, 1)
}

func TestGame_DestroyIsQueuedOnce(t *testing.T) {
	game := newTestGame(t, nil)
	asteroid := entity.NewAsteroid(physics.Vector2D{X: 100, Y: 100}, 20, 0, 0, 0)
	game.AddBody(asteroid)
	events := recordEvents(game, event.BodyDestroyed)

	game.EntityLock.Lock()
	game.Destroy(asteroid)
	game.Destroy(asteroid)
	assert.False(t, asteroid.Alive(), "destroy kills immediately")
	assert.Len(t, game.pendingDestroy, 1)
	assert.Contains(t, game.Asteroids, asteroid.GetID(), "removal waits for the flush")
	game.flush()
	game.EntityLock.Unlock()

	assert.NotContains(t, game.Asteroids, asteroid.GetID())
	assert.Len(t, *events, 1)
}

func TestGame_SpawnedDeadBodyIsDropped(t *testing.T) {
	game := newTestGame(t, nil)
	a := entity.NewAsteroid(physics.Vector2D{X: 100, Y: 100}, 20, 0, 0, 0)
	a.Kill()
	game.AddBody(a)
	assert.Empty(t, game.Asteroids)
}

func TestGame_AwardUnknownShipIsNoop(t *testing.T) {
	game := newTestGame(t, nil)
	events := recordEvents(game, event.ScoreAwarded)

	game.Award(entity.ID(123456), 50)
	assert.Empty(t, *events)

	ship := game.AddShip(physics.Vector2D{X: 100, Y: 100})
	game.Award(ship.GetID(), 50)
	game.Award(ship.GetID(), 25)
	assert.Equal(t, 75, ship.Score)
	require.Len(t, *events, 2)
	assert.Equal(t, 75, (*events)[1].(*event.ScoreEvent).Total)
}

func TestGame_AwardDestroyedShipIsNoop(t *testing.T) {
	game := newTestGame(t, nil)
	ship := game.AddShip(physics.Vector2D{X: 100, Y: 100})
	events := recordEvents(game, event.ScoreAwarded)

	game.EntityLock.Lock()
	game.Destroy(ship)
	assert.Contains(t, game.Ships, ship.GetID(), "ship stays until the flush")
	game.Award(ship.GetID(), 50)
	game.EntityLock.Unlock()

	assert.Equal(t, 0, ship.Score)
	assert.Empty(t, *events)
}

func TestGame_ImplementsCollisionWorld(t *testing.T) {
	var w collision.World = newTestGame(t, nil)
	assert.NotNil(t, w.PowerupManager())
}

func TestGame_LevelUp(t *testing.T) {
	game := newTestGame(t, nil)
	ship := game.AddShip(physics.Vector2D{X: 550, Y: 800})
	events := recordEvents(game, event.LevelChanged)
	game.Start()

	game.Update()
	assert.Equal(t, 0, game.Levels.Current())

	ship.Score = 250
	game.Update()
	game.Update()
	game.Update()
	assert.Equal(t, 2, game.Levels.Current(), "one level per tick until the score falls short")
	assert.Equal(t, 2, game.asteroidSpawner.Current())
	assert.Equal(t, 2, game.powerupSpawner.Current())

	require.Len(t, *events, 2)
	first := (*events)[0].(*event.LevelEvent)
	assert.Equal(t, 0, first.From)
	assert.Equal(t, 1, first.To)
}

func TestGame_PowerupPickupAndExpiry(t *testing.T) {
	game := newTestGame(t, nil)
	ship := game.AddShip(physics.Vector2D{X: 300, Y: 300})
	powerup := entity.NewPowerup(entity.SpeedPowerup, ship.Position, 0, game.powerupSpec)
	game.AddBody(powerup)
	events := recordEvents(game, event.PowerupApplied, event.PowerupExpired)
	game.Start()

	game.Update()
	assert.False(t, powerup.Alive())
	assert.Empty(t, game.Powerups)
	assert.Equal(t, 7.0, ship.Speed)
	assert.Equal(t, []entity.PowerupType{entity.SpeedPowerup}, game.GetGameState().Ships[0].Active)

	ticks := int(6 * time.Second / game.Config.World.TickDuration())
	for i := 0; i < ticks; i++ {
		game.Update()
	}
	assert.Equal(t, 2.7, ship.Speed, "speed rolls back after the effect expires")
	assert.Empty(t, game.GetGameState().Ships[0].Active)

	require.Len(t, *events, 2)
	assert.Equal(t, event.PowerupApplied, (*events)[0].GetType())
	assert.Equal(t, event.PowerupExpired, (*events)[1].GetType())
}

func TestGame_UncollectedPowerupExpires(t *testing.T) {
	game := newTestGame(t, nil)
	game.AddBody(entity.NewPowerup(entity.HealthPowerup, physics.Vector2D{X: 300, Y: 300}, 0, game.powerupSpec))
	game.Start()

	ticks := int(game.powerupSpec.Lifetime/game.Config.World.TickDuration()) + 2
	for i := 0; i < ticks; i++ {
		game.Update()
	}
	assert.Empty(t, game.Powerups)
}

func TestGame_ProjectileLeavesWorld(t *testing.T) {
	game := newTestGame(t, nil)
	ship := game.AddShip(physics.Vector2D{X: 550, Y: 100})
	game.Start()
	require.NoError(t, game.Fire(ship.GetID()))

	for i := 0; i < 20; i++ {
		game.Update()
	}
	assert.Empty(t, game.Projectiles)
	assert.NoError(t, game.SpatialIndex.Validate())
}

func TestGame_AutoFire(t *testing.T) {
	cfg := config.DefaultConfig()
	game := newTestGame(t, cfg)
	game.AddShip(physics.Vector2D{X: 550, Y: 800})
	fired := recordEvents(game, event.ProjectileFired)
	game.Start()

	// 60 ticks is one second; a 420ms delay allows shots at 0, ~433 and ~866ms.
	for i := 0; i < 60; i++ {
		game.Update()
	}
	assert.Len(t, *fired, 3)
}

func TestGame_ShipCommands(t *testing.T) {
	game := newTestGame(t, nil)
	ship := game.AddShip(physics.Vector2D{X: 550, Y: 800})

	err := game.Steer(entity.ID(987654), physics.Vector2D{X: 1}, 0)
	assert.ErrorIs(t, err, ErrShipNotFound)

	require.NoError(t, game.Steer(ship.GetID(), physics.Vector2D{X: 1}, 1.5))
	assert.Equal(t, 1.5, ship.Rotation)

	require.NoError(t, game.Fire(ship.GetID()))
	assert.ErrorIs(t, game.Fire(ship.GetID()), ErrWeaponNotReady)

	game.Start()
	game.Update()
	assert.InDelta(t, 552.7, ship.Position.X, 1e-9, "thrust moves the ship by its speed")

	ship.Deactivate()
	assert.ErrorIs(t, game.Fire(ship.GetID()), ErrShipInactive)
	assert.ErrorIs(t, game.Steer(ship.GetID(), physics.Vector2D{}, 0), ErrShipInactive)
}

func TestGame_SpawnersFollowSchedule(t *testing.T) {
	game, err := NewGame(testConfig())
	require.NoError(t, err)
	spawned := recordEvents(game, event.BodySpawned)
	game.Start()

	ticks := int(2500 * time.Millisecond / game.Config.World.TickDuration())
	for i := 0; i < ticks; i++ {
		game.Update()
	}
	assert.Empty(t, *spawned, "nothing spawns before the first period")

	for i := 0; i < 5; i++ {
		game.Update()
	}
	require.Len(t, *spawned, 1)
	assert.Equal(t, entity.KindAsteroid, (*spawned)[0].(*event.BodyEvent).Kind)
}

func TestGame_Deterministic(t *testing.T) {
	run := func() ([]AsteroidState, int) {
		cfg := config.DefaultConfig()
		cfg.World.Seed = 2024
		cfg.Asteroids.SpawnIntervalMS = 300
		game, err := NewGame(cfg)
		require.NoError(t, err)
		ship := game.AddShip(physics.Vector2D{X: 550, Y: 850})
		game.Start()
		for i := 0; i < 900; i++ {
			game.Update()
		}
		state := game.GetGameState()
		for i := range state.Asteroids {
			state.Asteroids[i].ID = 0
		}
		return state.Asteroids, ship.Score
	}

	asteroidsA, scoreA := run()
	asteroidsB, scoreB := run()
	assert.Equal(t, asteroidsA, asteroidsB)
	assert.Equal(t, scoreA, scoreB)
}

func TestGame_GetGameState_ReflectsEntities(t *testing.T) {
	game := newTestGame(t, nil)
	game.AddShip(physics.Vector2D{X: 100, Y: 100})
	game.AddBody(entity.NewAsteroid(physics.Vector2D{X: 500, Y: 500}, 30, 2, 0, 0))
	game.AddBody(entity.NewPowerup(entity.SpeedPowerup, physics.Vector2D{X: 900, Y: 700}, 0, game.powerupSpec))

	state := game.GetGameState()
	require.Len(t, state.Ships, 1)
	require.Len(t, state.Asteroids, 1)
	require.Len(t, state.Powerups, 1)
	assert.Equal(t, 0, state.Projectiles)
	assert.Equal(t, GameStatusWaiting, state.Status)
	assert.Equal(t, physics.Vector2D{X: 0, Y: -2}, state.Asteroids[0].Velocity)
	assert.Equal(t, entity.SpeedPowerup, state.Powerups[0].Type)
}

func TestGameStatus_String(t *testing.T) {
	assert.Equal(t, "waiting", GameStatusWaiting.String())
	assert.Equal(t, "active", GameStatusActive.String())
	assert.Equal(t, "ended", GameStatusEnded.String())
	assert.Equal(t, "unknown", GameStatus(42).String())
}

func TestPairName_IsOrderIndependent(t *testing.T) {
	assert.Equal(t, "ship/asteroid", pairName(entity.KindAsteroid, entity.KindShip))
	assert.Equal(t, "ship/asteroid", pairName(entity.KindShip, entity.KindAsteroid))
	assert.Equal(t, makePairKey(3, 9), makePairKey(9, 3))
}
