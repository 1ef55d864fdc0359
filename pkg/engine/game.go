// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-asteroids/pkg/collision"
	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
	"github.com/opd-ai/go-asteroids/pkg/level"
	"github.com/opd-ai/go-asteroids/pkg/logging"
	"github.com/opd-ai/go-asteroids/pkg/physics"
	"github.com/opd-ai/go-asteroids/pkg/quadtree"
)

// GameStatus is the lifecycle stage of a game.
type GameStatus int

const (
	GameStatusWaiting GameStatus = iota
	GameStatusActive
	GameStatusEnded
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusWaiting:
		return "waiting"
	case GameStatusActive:
		return "active"
	case GameStatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

var (
	// ErrShipNotFound is returned by ship commands for unknown IDs.
	ErrShipNotFound = errors.New("ship not found")
	// ErrShipInactive is returned by ship commands for destroyed ships.
	ErrShipInactive = errors.New("ship is not active")
	// ErrWeaponNotReady is returned by Fire while the gun cools down.
	ErrWeaponNotReady = errors.New("weapon not ready")
)

var _ collision.World = (*Game)(nil)

// TickStats summarizes the work done by the last tick.
type TickStats struct {
	Tick       uint64
	Leaves     int
	Candidates int
	Resolved   int
	Spawned    int
	Destroyed  int
}

// Game is a frame-stepped asteroids simulation. Every tick runs the ecs
// systems in priority order: powerup expiry, spawning, weapons, collision,
// movement and level progression. Bodies destroyed or spawned while a system
// runs are queued and flushed once the system finishes.
//
// Event handlers run synchronously under EntityLock and must not call back
// into locking Game methods.
type Game struct {
	Config       *config.GameConfig
	Ships        map[entity.ID]*entity.Ship
	Asteroids    map[entity.ID]*entity.Asteroid
	Projectiles  map[entity.ID]*entity.Projectile
	Powerups     map[entity.ID]*entity.Powerup
	EntityLock   sync.RWMutex
	Running      bool
	Status       GameStatus
	CurrentTick  uint64
	StartTime    time.Duration
	EndTime      time.Duration
	EventBus     *event.Bus
	SpatialIndex *quadtree.Quadtree[entity.Body]
	Dispatcher   *collision.Dispatcher
	Levels       *level.Manager
	LastTick     TickStats

	world    physics.Area
	tick     time.Duration
	clock    time.Duration
	rng      *rand.Rand
	rules    collision.Rules
	powerups *entity.PowerupManager

	asteroidSpawner *level.AsteroidSpawner
	powerupSpawner  *level.PowerupSpawner
	spawning        bool

	shipStats      entity.ShipStats
	projectileSpec entity.ProjectileSpec
	powerupSpec    entity.PowerupSpec

	systems *ecs.World

	pendingDestroy []entity.Body
	pendingSpawn   []entity.Body
	queued         map[entity.ID]struct{}
	seenPairs      map[pairKey]struct{}
	shipsAdded     int

	logger *logging.Logger
	ctx    context.Context
}

// Option customizes a Game at construction.
type Option func(*Game)

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *logging.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithContext sets the context passed to the logger, usually one carrying a
// correlation ID.
func WithContext(ctx context.Context) Option {
	return func(g *Game) { g.ctx = ctx }
}

// WithoutSpawning disables the level-driven asteroid and powerup spawners so
// only bodies added explicitly take part.
func WithoutSpawning() Option {
	return func(g *Game) { g.spawning = false }
}

// NewGame creates a waiting game from cfg. A nil cfg uses
// config.DefaultConfig.
func NewGame(cfg *config.GameConfig, opts ...Option) (*Game, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid game config")
	}

	game := &Game{
		Config:      cfg,
		Ships:       make(map[entity.ID]*entity.Ship),
		Asteroids:   make(map[entity.ID]*entity.Asteroid),
		Projectiles: make(map[entity.ID]*entity.Projectile),
		Powerups:    make(map[entity.ID]*entity.Powerup),
		EventBus:    event.NewEventBus(),
		Status:      GameStatusWaiting,
		world:       physics.NewArea(physics.Point{}, physics.Point{X: cfg.World.Width, Y: cfg.World.Height}),
		tick:        cfg.World.TickDuration(),
		rng:         rand.New(rand.NewPCG(cfg.World.Seed, cfg.World.Seed)),
		powerups:    entity.NewPowerupManager(),
		spawning:    true,
		queued:      make(map[entity.ID]struct{}),
		seenPairs:   make(map[pairKey]struct{}),
		logger:      logging.NewDiscardLogger(),
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(game)
	}

	game.applyConfig()
	if err := game.initSpatialIndex(); err != nil {
		return nil, err
	}
	if err := game.initLevels(); err != nil {
		return nil, err
	}
	game.Dispatcher = collision.NewDispatcher(game)
	game.initSystems()
	game.registerEventHandlers()

	return game, nil
}

// applyConfig converts the config sections into entity and handler tuning.
func (g *Game) applyConfig() {
	cfg := g.Config
	g.rules = collision.DefaultRules()
	g.rules.Split = entity.SplitRules{
		MinRadius:   cfg.Asteroids.MinSplitRadius,
		MinCount:    cfg.Asteroids.MinSplitCount,
		MaxCount:    cfg.Asteroids.MaxSplitCount,
		SpeedFactor: cfg.Asteroids.SplitSpeedFactor,
	}
	g.rules.SeparationMargin = cfg.Asteroids.SeparationMargin

	g.shipStats = entity.ShipStats{
		Radius:     cfg.Ship.Radius,
		Health:     cfg.Ship.Health,
		Speed:      cfg.Ship.Speed,
		Damage:     cfg.Ship.Damage,
		ShootDelay: config.Millis(cfg.Ship.ShootDelayMS),
	}
	g.projectileSpec = entity.ProjectileSpec{
		Width:  cfg.Projectile.Width,
		Height: cfg.Projectile.Height,
		Speed:  cfg.Projectile.Speed,
	}
	g.powerupSpec = entity.PowerupSpec{
		Size:              cfg.Powerups.Size,
		Lifetime:          config.Millis(cfg.Powerups.LifetimeMS),
		Duration:          config.Millis(cfg.Powerups.DurationMS),
		AttackSpeedDelay:  config.Millis(cfg.Powerups.AttackSpeedDelay),
		AttackSpeedDamage: cfg.Powerups.AttackSpeedDamage,
		SpeedBoost:        cfg.Powerups.SpeedBoost,
		HealthRestore:     cfg.Powerups.HealthRestore,
	}
}

// initSpatialIndex creates the quadtree covering the world.
func (g *Game) initSpatialIndex() error {
	index, err := quadtree.New[entity.Body](g.world, g.Config.World.SearchAccuracy)
	if err != nil {
		return logging.WrapError(err, "failed to create spatial index")
	}
	g.SpatialIndex = index
	return nil
}

// initLevels builds the level manager and registers both spawners with it.
func (g *Game) initLevels() error {
	cfg := g.Config
	levels, err := level.NewManager(level.Thresholds(cfg.Levels.Count, cfg.Levels.ScoreStep))
	if err != nil {
		return logging.WrapError(err, "failed to create level manager")
	}

	asteroids, err := level.NewAsteroidSpawner(
		cfg.Asteroids.Types,
		config.Millis(cfg.Asteroids.SpawnIntervalMS),
		config.Millis(cfg.Asteroids.MinSpawnMS),
		g.world,
	)
	if err != nil {
		return logging.WrapError(err, "failed to create asteroid spawner")
	}
	powerups := level.NewPowerupSpawner(
		g.powerupSpec,
		config.Millis(cfg.Powerups.SpawnIntervalMS),
		config.Millis(cfg.Powerups.MinSpawnMS),
		cfg.Levels.Count,
		g.world,
	)

	levels.Register(asteroids)
	levels.Register(powerups)
	g.Levels = levels
	g.asteroidSpawner = asteroids
	g.powerupSpawner = powerups
	return nil
}

// initSystems registers the per-tick systems with the ecs world.
func (g *Game) initSystems() {
	g.systems = &ecs.World{}
	g.systems.AddSystem(&powerupSystem{game: g})
	g.systems.AddSystem(&spawnSystem{game: g})
	g.systems.AddSystem(&weaponSystem{game: g})
	g.systems.AddSystem(&collisionSystem{game: g})
	g.systems.AddSystem(&movementSystem{game: g})
	g.systems.AddSystem(&levelSystem{game: g})
}

// registerEventHandlers subscribes the game's own reactions to events.
func (g *Game) registerEventHandlers() {
	g.EventBus.Subscribe(event.ShipDestroyed, g.handleShipDestroyedEvent)
}

func (g *Game) handleShipDestroyedEvent(e event.Event) {
	if shipEvent, ok := e.(*event.ShipEvent); ok {
		g.logger.Info(g.ctx, "ship destroyed",
			"ship_id", uint64(shipEvent.ShipID),
			"score", shipEvent.Score,
			"tick", g.CurrentTick)
	}
}

// Start moves a waiting game to active.
func (g *Game) Start() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if g.Status != GameStatusWaiting {
		return
	}
	g.Running = true
	g.Status = GameStatusActive
	g.StartTime = g.clock
	g.EventBus.Publish(event.NewGameEvent(event.GameStarted, g, g.clock, g.CurrentTick))
	g.logger.Info(g.ctx, "game started",
		"seed", g.Config.World.Seed,
		"world_width", g.Config.World.Width,
		"world_height", g.Config.World.Height,
		"dedupe_pairs", g.Config.World.DedupePairs)
}

// Stop ends the game.
func (g *Game) Stop() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	g.endGameInternal()
}

// endGameInternal ends the game; the caller must hold EntityLock.
func (g *Game) endGameInternal() {
	if g.Status == GameStatusEnded {
		return
	}
	g.Running = false
	g.Status = GameStatusEnded
	g.EndTime = g.clock
	g.EventBus.Publish(event.NewGameEvent(event.GameEnded, g, g.clock, g.CurrentTick))
	g.logger.Info(g.ctx, "game ended",
		"ticks", g.CurrentTick,
		"elapsed", (g.EndTime - g.StartTime).String(),
		"level", g.Levels.Current(),
		"best_score", g.bestScore())
}

// Update advances an active game by exactly one tick.
func (g *Game) Update() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if g.Status != GameStatusActive {
		return
	}

	started := time.Now()
	g.LastTick = TickStats{Tick: g.CurrentTick}

	g.systems.Update(float32(g.tick.Seconds()))
	g.flush()
	g.checkGameOver()

	g.CurrentTick++
	g.clock += g.tick

	instrumentTick(started, g.LastTick.Leaves)
	g.logger.Debug(g.ctx, "tick",
		"tick", g.LastTick.Tick,
		"leaves", g.LastTick.Leaves,
		"candidates", g.LastTick.Candidates,
		"resolved", g.LastTick.Resolved,
		"spawned", g.LastTick.Spawned,
		"destroyed", g.LastTick.Destroyed)
}

// checkGameOver ends the game once every ship that ever joined is gone.
func (g *Game) checkGameOver() {
	if g.Status == GameStatusActive && g.shipsAdded > 0 && len(g.Ships) == 0 {
		g.endGameInternal()
	}
}

// CurrentStatus returns the game status.
func (g *Game) CurrentStatus() GameStatus {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.Status
}

// Ticks returns the number of completed ticks.
func (g *Game) Ticks() uint64 {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.CurrentTick
}

// World returns the playfield area.
func (g *Game) World() physics.Area {
	return g.world
}

// AddShip places a new ship with the configured stats at pos.
func (g *Game) AddShip(pos physics.Vector2D) *entity.Ship {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	ship := entity.NewShip(pos, g.shipStats)
	g.addBody(ship)
	return ship
}

// AddBody inserts b into the simulation immediately.
func (g *Game) AddBody(b entity.Body) {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	g.addBody(b)
}

// Steer sets a ship's thrust direction and gun heading.
func (g *Game) Steer(shipID entity.ID, thrust physics.Vector2D, rotation float64) error {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	ship, err := g.findActiveShip(shipID)
	if err != nil {
		return err
	}
	ship.Thrust = thrust
	ship.Rotation = rotation
	return nil
}

// Fire shoots a projectile from the ship's nose.
func (g *Game) Fire(shipID entity.ID) error {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	ship, err := g.findActiveShip(shipID)
	if err != nil {
		return err
	}
	if !g.fire(ship) {
		return ErrWeaponNotReady
	}
	g.flush()
	return nil
}

func (g *Game) findActiveShip(shipID entity.ID) (*entity.Ship, error) {
	ship, ok := g.Ships[shipID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrShipNotFound, shipID)
	}
	if !ship.Alive() {
		return nil, fmt.Errorf("%w: %d", ErrShipInactive, shipID)
	}
	return ship, nil
}

// fire queues a projectile if the ship's gun is ready.
func (g *Game) fire(ship *entity.Ship) bool {
	p := ship.Fire(g.clock, g.projectileSpec)
	if p == nil {
		return false
	}
	g.Spawn(p)
	g.EventBus.Publish(event.NewBodyEvent(event.ProjectileFired, g, p))
	return true
}

// bestScore returns the highest score among ships still in the game.
func (g *Game) bestScore() int {
	best := 0
	for _, ship := range g.Ships {
		best = max(best, ship.Score)
	}
	return best
}

// Destroy implements collision.World. The body dies at once and leaves the
// index and every system at the next flush. Destroying twice is harmless.
func (g *Game) Destroy(b entity.Body) {
	b.Kill()
	id := b.GetID()
	if _, ok := g.queued[id]; ok {
		return
	}
	g.queued[id] = struct{}{}
	g.pendingDestroy = append(g.pendingDestroy, b)
}

// Spawn implements collision.World. The body joins at the next flush.
func (g *Game) Spawn(b entity.Body) {
	g.pendingSpawn = append(g.pendingSpawn, b)
}

// Award implements collision.World. Ships destroyed earlier in the tick
// are not credited.
func (g *Game) Award(shipID entity.ID, amount int) {
	ship, ok := g.Ships[shipID]
	if !ok || !ship.Alive() {
		return
	}
	ship.Score += amount
	g.EventBus.Publish(event.NewScoreEvent(g, shipID, amount, ship.Score))
}

// Publish implements collision.World.
func (g *Game) Publish(e event.Event) {
	g.EventBus.Publish(e)
}

// Rand implements collision.World. All randomness in a game comes from this
// seeded source.
func (g *Game) Rand() *rand.Rand {
	return g.rng
}

// Now implements collision.World.
func (g *Game) Now() time.Duration {
	return g.clock
}

// PowerupManager implements collision.World.
func (g *Game) PowerupManager() *entity.PowerupManager {
	return g.powerups
}

// Rules implements collision.World.
func (g *Game) Rules() collision.Rules {
	return g.rules
}

// flush applies queued destroys and spawns until both queues are empty.
func (g *Game) flush() {
	for len(g.pendingDestroy) > 0 || len(g.pendingSpawn) > 0 {
		destroyed := g.pendingDestroy
		g.pendingDestroy = nil
		for _, b := range destroyed {
			g.removeBody(b)
		}

		spawned := g.pendingSpawn
		g.pendingSpawn = nil
		for _, b := range spawned {
			g.addBody(b)
		}
	}
}

// addBody registers b with the typed collections and every tracking system.
func (g *Game) addBody(b entity.Body) {
	if !b.Alive() {
		return
	}
	id := b.GetID()
	switch v := b.(type) {
	case *entity.Ship:
		g.Ships[id] = v
		g.powerups.Register(v)
		g.shipsAdded++
	case *entity.Asteroid:
		g.Asteroids[id] = v
	case *entity.Projectile:
		g.Projectiles[id] = v
	case *entity.Powerup:
		g.Powerups[id] = v
	}

	for _, sys := range g.systems.Systems() {
		if tracker, ok := sys.(bodyTracker); ok {
			tracker.Add(b)
		}
	}

	g.LastTick.Spawned++
	instrumentBodySpawned(b.Kind())
	g.EventBus.Publish(event.NewBodyEvent(event.BodySpawned, g, b))
}

// removeBody drops a destroyed body from the index, the systems and the
// typed collections.
func (g *Game) removeBody(b entity.Body) {
	id := b.GetID()
	delete(g.queued, id)

	g.SpatialIndex.Remove(b)
	g.systems.RemoveEntity(*b.GetBasicEntity())

	switch b.(type) {
	case *entity.Ship:
		delete(g.Ships, id)
		g.powerups.Unregister(id)
	case *entity.Asteroid:
		delete(g.Asteroids, id)
	case *entity.Projectile:
		delete(g.Projectiles, id)
	case *entity.Powerup:
		delete(g.Powerups, id)
	}

	g.LastTick.Destroyed++
	instrumentBodyDestroyed(b.Kind())
	g.EventBus.Publish(event.NewBodyEvent(event.BodyDestroyed, g, b))
}
