package collision

import (
	"math/rand/v2"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/event"
)

// fakeWorld records every side effect handlers request.
type fakeWorld struct {
	rng       *rand.Rand
	now       time.Duration
	rules     Rules
	powerups  *entity.PowerupManager
	destroyed []entity.Body
	spawned   []entity.Body
	awards    map[entity.ID]int
	events    []event.Event
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		rng:      rand.New(rand.NewPCG(42, 1024)),
		rules:    DefaultRules(),
		powerups: entity.NewPowerupManager(),
		awards:   make(map[entity.ID]int),
	}
}

func (w *fakeWorld) Destroy(b entity.Body) {
	b.Kill()
	w.destroyed = append(w.destroyed, b)
}

func (w *fakeWorld) Spawn(b entity.Body)                    { w.spawned = append(w.spawned, b) }
func (w *fakeWorld) Award(shipID entity.ID, amount int)     { w.awards[shipID] += amount }
func (w *fakeWorld) Publish(e event.Event)                  { w.events = append(w.events, e) }
func (w *fakeWorld) Rand() *rand.Rand                       { return w.rng }
func (w *fakeWorld) Now() time.Duration                     { return w.now }
func (w *fakeWorld) PowerupManager() *entity.PowerupManager { return w.powerups }
func (w *fakeWorld) Rules() Rules                           { return w.rules }

func (w *fakeWorld) explosions() []*event.ExplosionEvent {
	var out []*event.ExplosionEvent
	for _, e := range w.events {
		if ex, ok := e.(*event.ExplosionEvent); ok {
			out = append(out, ex)
		}
	}
	return out
}
