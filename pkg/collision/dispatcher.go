package collision

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-asteroids/pkg/entity"
)

// ErrDuplicateHandler is returned when an unordered kind pair already has a
// handler.
var ErrDuplicateHandler = errors.New("collision: handler already registered for pair")

// Handler resolves one collision pair.
type Handler interface {
	Resolve()
}

// Factory builds a handler for two bodies given in the registered order. It
// returns nil when the concrete types do not fit.
type Factory func(w World, a, b entity.Body) Handler

type route struct {
	factory Factory
	swap    bool
}

// Dispatcher looks up the handler for an unordered pair of body kinds.
type Dispatcher struct {
	world  World
	routes [entity.KindCount][entity.KindCount]route
}

// NewDispatcher returns a dispatcher with the default handlers registered.
func NewDispatcher(w World) *Dispatcher {
	d := NewEmptyDispatcher(w)
	defaults := []struct {
		first, second entity.Kind
		factory       Factory
	}{
		{entity.KindAsteroid, entity.KindAsteroid, NewAsteroidCollision},
		{entity.KindAsteroid, entity.KindProjectile, NewAsteroidProjectileCollision},
		{entity.KindShip, entity.KindAsteroid, NewShipAsteroidCollision},
		{entity.KindPowerup, entity.KindShip, NewPowerupShipCollision},
	}
	for _, def := range defaults {
		if err := d.Register(def.first, def.second, def.factory); err != nil {
			panic(err)
		}
	}
	return d
}

// NewEmptyDispatcher returns a dispatcher without handlers.
func NewEmptyDispatcher(w World) *Dispatcher {
	return &Dispatcher{world: w}
}

// Register binds factory to the unordered pair {first, second}. The factory
// always receives its bodies as (first, second).
func (d *Dispatcher) Register(first, second entity.Kind, factory Factory) error {
	if !first.Valid() || !second.Valid() {
		return fmt.Errorf("collision: invalid kind pair (%d, %d)", first, second)
	}
	if factory == nil {
		return fmt.Errorf("collision: nil factory for (%s, %s)", first, second)
	}
	if d.routes[first][second].factory != nil {
		return fmt.Errorf("%w: (%s, %s)", ErrDuplicateHandler, first, second)
	}

	d.routes[first][second] = route{factory: factory}
	if first != second {
		d.routes[second][first] = route{factory: factory, swap: true}
	}
	return nil
}

// Lookup returns the factory for a kind pair and whether the bodies must be
// swapped before calling it.
func (d *Dispatcher) Lookup(a, b entity.Kind) (Factory, bool, bool) {
	if !a.Valid() || !b.Valid() {
		return nil, false, false
	}
	r := d.routes[a][b]
	return r.factory, r.swap, r.factory != nil
}

// CreateResolve returns the handler for a and b, or nil if the pair has none.
func (d *Dispatcher) CreateResolve(a, b entity.Body) Handler {
	factory, swap, ok := d.Lookup(a.Kind(), b.Kind())
	if !ok {
		return nil
	}
	if swap {
		a, b = b, a
	}
	return factory(d.world, a, b)
}

// Resolve runs the handler for a and b once and reports whether one existed.
func (d *Dispatcher) Resolve(a, b entity.Body) bool {
	h := d.CreateResolve(a, b)
	if h == nil {
		return false
	}
	h.Resolve()
	return true
}
