// pkg/entity/powerup.go
package entity

import (
	"time"

	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// PowerupType identifies the effect a powerup grants.
type PowerupType int

const (
	AttackSpeedPowerup PowerupType = iota
	SpeedPowerup
	HealthPowerup

	PowerupTypeCount
)

func (t PowerupType) String() string {
	switch t {
	case AttackSpeedPowerup:
		return "attack_speed"
	case SpeedPowerup:
		return "speed"
	case HealthPowerup:
		return "health"
	default:
		return "unknown"
	}
}

// PowerupSpec holds the tuning shared by all powerups.
type PowerupSpec struct {
	Size     float64
	Lifetime time.Duration
	Duration time.Duration

	AttackSpeedDelay  time.Duration
	AttackSpeedDamage float64
	SpeedBoost        float64
	HealthRestore     float64
}

// DefaultPowerupSpec returns the classic powerup tuning.
func DefaultPowerupSpec() PowerupSpec {
	return PowerupSpec{
		Size:              30,
		Lifetime:          10 * time.Second,
		Duration:          5 * time.Second,
		AttackSpeedDelay:  100 * time.Millisecond,
		AttackSpeedDamage: 50,
		SpeedBoost:        7,
		HealthRestore:     50,
	}
}

// Powerup is a pickup floating in the world until it expires or a ship
// collects it.
type Powerup struct {
	BaseEntity
	Type      PowerupType
	Size      float64
	SpawnedAt time.Duration
	Lifetime  time.Duration

	effect Effect
}

// NewPowerup creates a powerup of the given type spawned at now.
func NewPowerup(typ PowerupType, pos physics.Vector2D, now time.Duration, spec PowerupSpec) *Powerup {
	return &Powerup{
		BaseEntity: NewBaseEntity(pos),
		Type:       typ,
		Size:       spec.Size,
		SpawnedAt:  now,
		Lifetime:   spec.Lifetime,
		effect:     newEffect(typ, spec),
	}
}

// Kind implements Body.
func (p *Powerup) Kind() Kind {
	return KindPowerup
}

// Effect returns the effect this powerup applies to a ship.
func (p *Powerup) Effect() Effect {
	return p.effect
}

// Shape returns the exact collision shape of the powerup sprite.
func (p *Powerup) Shape() physics.OrientedRect {
	return physics.OrientedRect{Center: p.Position, Width: p.Size, Height: p.Size}
}

// Bounds implements Body.
func (p *Powerup) Bounds() physics.Area {
	return p.Shape().Bounds()
}

// Update expires the powerup once its lifetime has passed.
func (p *Powerup) Update(_ physics.Area, now time.Duration) {
	if p.Active && now-p.SpawnedAt >= p.Lifetime {
		p.Kill()
	}
}

// Effect changes one ship attribute. Timed effects are rolled back once
// their duration has passed; a zero Duration means the effect is instant.
type Effect interface {
	Type() PowerupType
	Duration() time.Duration
	Apply(s *Ship)
	Rollback(s *Ship)
}

func newEffect(typ PowerupType, spec PowerupSpec) Effect {
	switch typ {
	case AttackSpeedPowerup:
		return &attackSpeedEffect{
			duration: spec.Duration,
			delay:    spec.AttackSpeedDelay,
			damage:   spec.AttackSpeedDamage,
		}
	case SpeedPowerup:
		return &speedEffect{duration: spec.Duration, speed: spec.SpeedBoost}
	default:
		return &healthEffect{amount: spec.HealthRestore}
	}
}

type attackSpeedEffect struct {
	duration   time.Duration
	delay      time.Duration
	damage     float64
	prevDelay  time.Duration
	prevDamage float64
	applied    bool
}

func (e *attackSpeedEffect) Type() PowerupType       { return AttackSpeedPowerup }
func (e *attackSpeedEffect) Duration() time.Duration { return e.duration }

func (e *attackSpeedEffect) Apply(s *Ship) {
	if e.applied {
		return
	}
	e.prevDelay, e.prevDamage = s.ShootDelay, s.Damage
	s.ShootDelay, s.Damage = e.delay, e.damage
	e.applied = true
}

func (e *attackSpeedEffect) Rollback(s *Ship) {
	if !e.applied {
		return
	}
	s.ShootDelay, s.Damage = e.prevDelay, e.prevDamage
	e.applied = false
}

type speedEffect struct {
	duration time.Duration
	speed    float64
	prev     float64
	applied  bool
}

func (e *speedEffect) Type() PowerupType       { return SpeedPowerup }
func (e *speedEffect) Duration() time.Duration { return e.duration }

func (e *speedEffect) Apply(s *Ship) {
	if e.applied {
		return
	}
	e.prev = s.Speed
	s.Speed = e.speed
	e.applied = true
}

func (e *speedEffect) Rollback(s *Ship) {
	if !e.applied {
		return
	}
	s.Speed = e.prev
	e.applied = false
}

type healthEffect struct {
	amount float64
}

func (e *healthEffect) Type() PowerupType       { return HealthPowerup }
func (e *healthEffect) Duration() time.Duration { return 0 }
func (e *healthEffect) Apply(s *Ship)           { s.Heal(e.amount) }
func (e *healthEffect) Rollback(*Ship)          {}
