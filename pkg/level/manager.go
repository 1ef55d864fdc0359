// pkg/level/manager.go

// Package level tracks score-driven difficulty. A Manager owns the score
// thresholds and forwards every level change to its registered Managed
// objects, typically the asteroid and powerup spawners.
package level

import (
	"errors"
	"slices"
)

// ErrNoLevels is returned when a manager is built without thresholds.
var ErrNoLevels = errors.New("level: at least one level is required")

// Managed is anything whose difficulty follows the game level.
type Managed interface {
	LevelUp()
	LevelDown()
	Reset()
	Current() int
}

// Manager walks an ascending list of score thresholds.
type Manager struct {
	thresholds []int
	cursor     int
	managed    []Managed
}

// Thresholds returns count thresholds spaced step points apart, starting at
// step.
func Thresholds(count, step int) []int {
	out := make([]int, 0, max(count, 0))
	for i := 0; i < count; i++ {
		out = append(out, step*(i+1))
	}
	return out
}

// NewManager returns a manager at level zero. Thresholds are sorted; the
// caller's slice is not modified.
func NewManager(thresholds []int, managed ...Managed) (*Manager, error) {
	if len(thresholds) == 0 {
		return nil, ErrNoLevels
	}
	sorted := slices.Clone(thresholds)
	slices.Sort(sorted)

	m := &Manager{thresholds: sorted}
	for _, obj := range managed {
		m.Register(obj)
	}
	return m, nil
}

// Count returns the number of levels.
func (m *Manager) Count() int {
	return len(m.thresholds)
}

// Threshold returns the score that completes the current level.
func (m *Manager) Threshold() int {
	return m.thresholds[m.cursor]
}

// LevelComplete reports whether score reaches the current level's threshold.
func (m *Manager) LevelComplete(score int) bool {
	return score >= m.thresholds[m.cursor]
}

// Current implements Managed.
func (m *Manager) Current() int {
	return m.cursor
}

// LevelUp advances one level and notifies every managed object. It is a no-op
// on the last level.
func (m *Manager) LevelUp() {
	if m.cursor >= len(m.thresholds)-1 {
		return
	}
	m.cursor++
	for _, obj := range m.managed {
		obj.LevelUp()
	}
}

// LevelDown goes back one level. It is a no-op on the first level.
func (m *Manager) LevelDown() {
	if m.cursor == 0 {
		return
	}
	m.cursor--
	for _, obj := range m.managed {
		obj.LevelDown()
	}
}

// Reset returns the manager and every managed object to level zero.
func (m *Manager) Reset() {
	m.cursor = 0
	for _, obj := range m.managed {
		obj.Reset()
	}
}

// Register adds obj to the notified set. Registering the same object twice
// has no effect; objects are compared by identity, so register pointers.
func (m *Manager) Register(obj Managed) {
	if obj == nil || slices.Contains(m.managed, obj) {
		return
	}
	m.managed = append(m.managed, obj)
}

// Unregister stops notifying obj. Unknown objects are ignored.
func (m *Manager) Unregister(obj Managed) {
	if i := slices.Index(m.managed, obj); i >= 0 {
		m.managed = slices.Delete(m.managed, i, i+1)
	}
}

// ManagedCount returns the number of registered objects.
func (m *Manager) ManagedCount() int {
	return len(m.managed)
}
