package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

type recordingHandler struct {
	a, b  entity.Body
	calls *int
}

func (h *recordingHandler) Resolve() { *h.calls++ }

func TestDispatcher_Lookup(t *testing.T) {
	d := NewDispatcher(newFakeWorld())

	tests := []struct {
		name     string
		a, b     entity.Kind
		wantOK   bool
		wantSwap bool
	}{
		{name: "asteroid_asteroid", a: entity.KindAsteroid, b: entity.KindAsteroid, wantOK: true},
		{name: "asteroid_projectile", a: entity.KindAsteroid, b: entity.KindProjectile, wantOK: true},
		{name: "projectile_asteroid", a: entity.KindProjectile, b: entity.KindAsteroid, wantOK: true, wantSwap: true},
		{name: "ship_asteroid", a: entity.KindShip, b: entity.KindAsteroid, wantOK: true},
		{name: "asteroid_ship", a: entity.KindAsteroid, b: entity.KindShip, wantOK: true, wantSwap: true},
		{name: "powerup_ship", a: entity.KindPowerup, b: entity.KindShip, wantOK: true},
		{name: "ship_powerup", a: entity.KindShip, b: entity.KindPowerup, wantOK: true, wantSwap: true},
		{name: "ship_ship", a: entity.KindShip, b: entity.KindShip},
		{name: "projectile_projectile", a: entity.KindProjectile, b: entity.KindProjectile},
		{name: "ship_projectile", a: entity.KindShip, b: entity.KindProjectile},
		{name: "powerup_asteroid", a: entity.KindPowerup, b: entity.KindAsteroid},
		{name: "invalid_kind", a: entity.KindCount, b: entity.KindShip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, swap, ok := d.Lookup(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSwap, swap)
			assert.Equal(t, tt.wantOK, factory != nil)
		})
	}
}

func TestDispatcher_SwapsIntoRegisteredOrder(t *testing.T) {
	calls := 0
	var got *recordingHandler
	d := NewEmptyDispatcher(newFakeWorld())
	require.NoError(t, d.Register(entity.KindShip, entity.KindAsteroid, func(w World, a, b entity.Body) Handler {
		got = &recordingHandler{a: a, b: b, calls: &calls}
		return got
	}))

	ship := entity.NewShip(physics.Vector2D{}, entity.DefaultShipStats())
	asteroid := entity.NewAsteroid(physics.Vector2D{}, 40, 1, 0, 0)

	require.True(t, d.Resolve(asteroid, ship))
	assert.Same(t, ship, got.a)
	assert.Same(t, asteroid, got.b)

	require.True(t, d.Resolve(ship, asteroid))
	assert.Same(t, ship, got.a)
	assert.Same(t, asteroid, got.b)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_DuplicateRegistration(t *testing.T) {
	d := NewDispatcher(newFakeWorld())

	err := d.Register(entity.KindAsteroid, entity.KindShip, NewShipAsteroidCollision)
	assert.ErrorIs(t, err, ErrDuplicateHandler)

	err = d.Register(entity.KindAsteroid, entity.KindAsteroid, NewAsteroidCollision)
	assert.ErrorIs(t, err, ErrDuplicateHandler)

	require.NoError(t, d.Register(entity.KindShip, entity.KindShip, NewAsteroidCollision))
}

func TestDispatcher_RegisterRejectsInvalidInput(t *testing.T) {
	d := NewEmptyDispatcher(newFakeWorld())

	assert.Error(t, d.Register(entity.KindCount, entity.KindShip, NewShipAsteroidCollision))
	assert.Error(t, d.Register(entity.KindShip, entity.KindAsteroid, nil))
}

func TestDispatcher_UnhandledPairIsNoop(t *testing.T) {
	w := newFakeWorld()
	d := NewDispatcher(w)
	a := entity.NewShip(physics.Vector2D{}, entity.DefaultShipStats())
	b := entity.NewShip(physics.Vector2D{}, entity.DefaultShipStats())

	assert.Nil(t, d.CreateResolve(a, b))
	assert.False(t, d.Resolve(a, b))
	assert.Empty(t, w.destroyed)
	assert.Empty(t, w.events)
}

func TestDispatcher_MismatchedFactoryIsNoop(t *testing.T) {
	d := NewEmptyDispatcher(newFakeWorld())
	// The asteroid factory cannot build a handler from two ships.
	require.NoError(t, d.Register(entity.KindShip, entity.KindShip, NewAsteroidCollision))

	a := entity.NewShip(physics.Vector2D{}, entity.DefaultShipStats())
	b := entity.NewShip(physics.Vector2D{}, entity.DefaultShipStats())
	assert.Nil(t, d.CreateResolve(a, b))
	assert.False(t, d.Resolve(a, b))
}
