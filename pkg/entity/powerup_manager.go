// pkg/entity/powerup_manager.go
package entity

import (
	"slices"
	"time"
)

// PowerupManager tracks the timed effects active on each ship. A ship holds
// at most one active effect per powerup type.
type PowerupManager struct {
	ships map[ID]*managedShip
}

type managedShip struct {
	ship   *Ship
	active map[PowerupType]*activeEffect
}

type activeEffect struct {
	effect      Effect
	activatedAt time.Duration
}

// Expiry describes an effect removed by Control.
type Expiry struct {
	ShipID ID
	Type   PowerupType
}

// NewPowerupManager returns an empty manager.
func NewPowerupManager() *PowerupManager {
	return &PowerupManager{ships: make(map[ID]*managedShip)}
}

// Register starts tracking effects for s. Registering twice is a no-op.
func (m *PowerupManager) Register(s *Ship) {
	if _, ok := m.ships[s.GetID()]; ok {
		return
	}
	m.ships[s.GetID()] = &managedShip{ship: s, active: make(map[PowerupType]*activeEffect)}
}

// Unregister stops tracking a ship without rolling its effects back.
func (m *PowerupManager) Unregister(id ID) {
	delete(m.ships, id)
}

// Add applies p to s at now. An effect of the same type that is still active
// has its timer refreshed instead of being applied again; the return value
// reports a refresh. Instant effects are applied and never tracked.
func (m *PowerupManager) Add(s *Ship, p *Powerup, now time.Duration) bool {
	effect := p.Effect()
	if effect.Duration() <= 0 {
		effect.Apply(s)
		return false
	}

	m.Register(s)
	managed := m.ships[s.GetID()]
	if current, ok := managed.active[effect.Type()]; ok {
		current.activatedAt = now
		return true
	}

	effect.Apply(s)
	managed.active[effect.Type()] = &activeEffect{effect: effect, activatedAt: now}
	return false
}

// Control rolls back every effect whose duration has passed and returns them
// ordered by ship ID then type.
func (m *PowerupManager) Control(now time.Duration) []Expiry {
	var expired []Expiry
	for _, id := range m.shipIDs() {
		managed := m.ships[id]
		for t := PowerupType(0); t < PowerupTypeCount; t++ {
			a, ok := managed.active[t]
			if !ok || now-a.activatedAt <= a.effect.Duration() {
				continue
			}
			a.effect.Rollback(managed.ship)
			delete(managed.active, t)
			expired = append(expired, Expiry{ShipID: id, Type: t})
		}
	}
	return expired
}

// Active returns the effect types currently active on a ship.
func (m *PowerupManager) Active(id ID) []PowerupType {
	managed, ok := m.ships[id]
	if !ok {
		return nil
	}
	types := make([]PowerupType, 0, len(managed.active))
	for t := range managed.active {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Remaining returns how long an active effect still lasts at now.
func (m *PowerupManager) Remaining(id ID, t PowerupType, now time.Duration) (time.Duration, bool) {
	managed, ok := m.ships[id]
	if !ok {
		return 0, false
	}
	a, ok := managed.active[t]
	if !ok {
		return 0, false
	}
	left := a.effect.Duration() - (now - a.activatedAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

func (m *PowerupManager) shipIDs() []ID {
	ids := make([]ID, 0, len(m.ships))
	for id := range m.ships {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
