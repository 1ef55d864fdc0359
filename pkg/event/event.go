// pkg/event/event.go
package event

import (
	"sync"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// Type represents the type of event
type Type string

// Event types published by the simulation
const (
	BodySpawned     Type = "body_spawned"
	BodyDestroyed   Type = "body_destroyed"
	Explosion       Type = "explosion"
	ScoreAwarded    Type = "score_awarded"
	PowerupApplied  Type = "powerup_applied"
	PowerupExpired  Type = "powerup_expired"
	ShipDestroyed   Type = "ship_destroyed"
	LevelChanged    Type = "level_changed"
	GameStarted     Type = "game_started"
	GameEnded       Type = "game_ended"
	PairResolved    Type = "pair_resolved"
	ProjectileFired Type = "projectile_fired"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			b.Unsubscribe(eventType, id)
		},
	}
}

// Unsubscribe removes the handler registered under id
func (b *Bus) Unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, ok := b.handlers[eventType]
	if !ok {
		return
	}

	for i, r := range handlers {
		if r.id == id {
			// Copy so that a Publish iterating the old slice is unaffected.
			next := make([]registration, 0, len(handlers)-1)
			next = append(next, handlers[:i]...)
			next = append(next, handlers[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, eventType)
			} else {
				b.handlers[eventType] = next
			}
			return
		}
	}
}

// HandlerCount returns the number of handlers subscribed to eventType
func (b *Bus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, r := range handlers {
		r.handler(event)
	}
}

// Specific event implementations

// BodyEvent reports a body entering or leaving the simulation
type BodyEvent struct {
	BaseEvent
	BodyID entity.ID
	Kind   entity.Kind
}

// NewBodyEvent creates a new body event
func NewBodyEvent(eventType Type, source interface{}, body entity.Body) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		BodyID:    body.GetID(),
		Kind:      body.Kind(),
	}
}

// ExplosionEvent asks presentation layers to draw an explosion
type ExplosionEvent struct {
	BaseEvent
	Center physics.Vector2D
	Size   float64
}

// NewExplosionEvent creates a new explosion event
func NewExplosionEvent(source interface{}, center physics.Vector2D, size float64) *ExplosionEvent {
	return &ExplosionEvent{
		BaseEvent: BaseEvent{EventType: Explosion, Source: source},
		Center:    center,
		Size:      size,
	}
}

// ScoreEvent reports points credited to a ship
type ScoreEvent struct {
	BaseEvent
	ShipID entity.ID
	Amount int
	Total  int
}

// NewScoreEvent creates a new score event
func NewScoreEvent(source interface{}, shipID entity.ID, amount, total int) *ScoreEvent {
	return &ScoreEvent{
		BaseEvent: BaseEvent{EventType: ScoreAwarded, Source: source},
		ShipID:    shipID,
		Amount:    amount,
		Total:     total,
	}
}

// PowerupEvent reports a powerup effect starting or ending on a ship
type PowerupEvent struct {
	BaseEvent
	ShipID    entity.ID
	Powerup   entity.PowerupType
	Refreshed bool
}

// NewPowerupEvent creates a new powerup event
func NewPowerupEvent(eventType Type, source interface{}, shipID entity.ID, typ entity.PowerupType, refreshed bool) *PowerupEvent {
	return &PowerupEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ShipID:    shipID,
		Powerup:   typ,
		Refreshed: refreshed,
	}
}

// ShipEvent contains information about ship-related events
type ShipEvent struct {
	BaseEvent
	ShipID entity.ID
	Score  int
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, shipID entity.ID, score int) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ShipID:    shipID,
		Score:     score,
	}
}

// LevelEvent reports a level transition
type LevelEvent struct {
	BaseEvent
	From int
	To   int
}

// NewLevelEvent creates a new level event
func NewLevelEvent(source interface{}, from, to int) *LevelEvent {
	return &LevelEvent{
		BaseEvent: BaseEvent{EventType: LevelChanged, Source: source},
		From:      from,
		To:        to,
	}
}

// GameEvent marks the start or end of a run
type GameEvent struct {
	BaseEvent
	At    time.Duration
	Ticks uint64
}

// NewGameEvent creates a new game event
func NewGameEvent(eventType Type, source interface{}, at time.Duration, ticks uint64) *GameEvent {
	return &GameEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		At:        at,
		Ticks:     ticks,
	}
}

// PairEvent reports a resolved collision pair
type PairEvent struct {
	BaseEvent
	BodyA entity.ID
	BodyB entity.ID
	KindA entity.Kind
	KindB entity.Kind
}

// NewPairEvent creates a new pair event
func NewPairEvent(source interface{}, a, b entity.Body) *PairEvent {
	return &PairEvent{
		BaseEvent: BaseEvent{EventType: PairResolved, Source: source},
		BodyA:     a.GetID(),
		BodyB:     b.GetID(),
		KindA:     a.Kind(),
		KindB:     b.Kind(),
	}
}
