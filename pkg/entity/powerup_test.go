package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-asteroids/pkg/physics"
)

func newTestPowerup(typ PowerupType, now time.Duration) *Powerup {
	return NewPowerup(typ, physics.Vector2D{X: 100, Y: 100}, now, DefaultPowerupSpec())
}

func TestPowerup_Lifetime(t *testing.T) {
	p := newTestPowerup(SpeedPowerup, time.Second)

	p.Update(testWorld(), 10*time.Second)
	assert.True(t, p.Alive())

	p.Update(testWorld(), 11*time.Second)
	assert.False(t, p.Alive())
}

func TestPowerupManager_Add(t *testing.T) {
	tests := []struct {
		name  string
		typ   PowerupType
		check func(t *testing.T, s *Ship, stats ShipStats)
	}{
		{
			name: "attack_speed",
			typ:  AttackSpeedPowerup,
			check: func(t *testing.T, s *Ship, stats ShipStats) {
				assert.Equal(t, 100*time.Millisecond, s.ShootDelay)
				assert.Equal(t, 50.0, s.Damage)
			},
		},
		{
			name: "speed",
			typ:  SpeedPowerup,
			check: func(t *testing.T, s *Ship, stats ShipStats) {
				assert.Equal(t, 7.0, s.Speed)
			},
		},
		{
			name: "health",
			typ:  HealthPowerup,
			check: func(t *testing.T, s *Ship, stats ShipStats) {
				assert.Equal(t, stats.Health, s.Health)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := DefaultShipStats()
			s := NewShip(physics.Vector2D{}, stats)
			s.TakeDamage(50)

			m := NewPowerupManager()
			m.Register(s)
			m.Add(s, newTestPowerup(tt.typ, 0), 0)

			tt.check(t, s, stats)
		})
	}
}

func TestPowerupManager_HealthIsInstant(t *testing.T) {
	s := NewShip(physics.Vector2D{}, DefaultShipStats())
	s.TakeDamage(10)
	m := NewPowerupManager()

	m.Add(s, newTestPowerup(HealthPowerup, 0), 0)

	assert.Equal(t, s.SourceHealth, s.Health, "health is capped at source health")
	assert.Empty(t, m.Active(s.GetID()))
}

func TestPowerupManager_Reapplication(t *testing.T) {
	stats := DefaultShipStats()
	s := NewShip(physics.Vector2D{}, stats)
	m := NewPowerupManager()
	m.Register(s)

	refreshed := m.Add(s, newTestPowerup(SpeedPowerup, 0), 0)
	require.False(t, refreshed)
	assert.Equal(t, 7.0, s.Speed)

	refreshed = m.Add(s, newTestPowerup(SpeedPowerup, 0), 3*time.Second)
	require.True(t, refreshed)
	assert.Equal(t, []PowerupType{SpeedPowerup}, m.Active(s.GetID()))

	left, ok := m.Remaining(s.GetID(), SpeedPowerup, 4*time.Second)
	require.True(t, ok)
	assert.Equal(t, 4*time.Second, left)

	// The first activation would have expired here.
	assert.Empty(t, m.Control(6*time.Second))
	assert.Equal(t, 7.0, s.Speed)

	expired := m.Control(9 * time.Second)
	assert.Equal(t, []Expiry{{ShipID: s.GetID(), Type: SpeedPowerup}}, expired)
	assert.Equal(t, stats.Speed, s.Speed, "rollback restores the value seen before the first application")
	assert.Empty(t, m.Active(s.GetID()))
}

func TestPowerupManager_ControlOrder(t *testing.T) {
	m := NewPowerupManager()
	first := NewShip(physics.Vector2D{}, DefaultShipStats())
	second := NewShip(physics.Vector2D{}, DefaultShipStats())

	m.Add(second, newTestPowerup(SpeedPowerup, 0), 0)
	m.Add(second, newTestPowerup(AttackSpeedPowerup, 0), 0)
	m.Add(first, newTestPowerup(SpeedPowerup, 0), 0)

	expired := m.Control(time.Minute)
	assert.Equal(t, []Expiry{
		{ShipID: first.GetID(), Type: SpeedPowerup},
		{ShipID: second.GetID(), Type: AttackSpeedPowerup},
		{ShipID: second.GetID(), Type: SpeedPowerup},
	}, expired)
	assert.Equal(t, DefaultShipStats().ShootDelay, second.ShootDelay)
}

func TestPowerupManager_Unregister(t *testing.T) {
	m := NewPowerupManager()
	s := NewShip(physics.Vector2D{}, DefaultShipStats())
	m.Add(s, newTestPowerup(SpeedPowerup, 0), 0)

	m.Unregister(s.GetID())

	assert.Empty(t, m.Control(time.Minute))
	assert.Nil(t, m.Active(s.GetID()))
}
