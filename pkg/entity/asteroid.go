// pkg/entity/asteroid.go
package entity

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// SkinCount is the number of interchangeable asteroid looks.
const SkinCount = 10

// SplitRules controls how a destroyed asteroid breaks apart.
type SplitRules struct {
	// MinRadius is the smallest radius that still splits.
	MinRadius float64
	MinCount  int
	MaxCount  int
	// SpeedFactor scales the parent speed for every fragment.
	SpeedFactor float64
}

// DefaultSplitRules matches the classic arcade tuning.
func DefaultSplitRules() SplitRules {
	return SplitRules{
		MinRadius:   30,
		MinCount:    2,
		MaxCount:    4,
		SpeedFactor: 0.9,
	}
}

// Asteroid is a drifting rock. Health and reward both start at its radius.
type Asteroid struct {
	BaseEntity
	Radius       float64
	Speed        float64 // pixels per tick
	Angle        float64 // heading, see physics.Heading
	Health       float64
	SourceHealth float64
	Reward       int
	Skin         int
}

// NewAsteroid creates an asteroid at pos moving along angle.
func NewAsteroid(pos physics.Vector2D, radius, speed, angle float64, skin int) *Asteroid {
	return &Asteroid{
		BaseEntity:   NewBaseEntity(pos),
		Radius:       radius,
		Speed:        speed,
		Angle:        angle,
		Health:       radius,
		SourceHealth: radius,
		Reward:       int(radius),
		Skin:         skin,
	}
}

// Kind implements Body.
func (a *Asteroid) Kind() Kind {
	return KindAsteroid
}

// Circle returns the collision shape of the asteroid.
func (a *Asteroid) Circle() physics.Circle {
	return physics.Circle{Center: a.Position, Radius: a.Radius}
}

// Bounds implements Body.
func (a *Asteroid) Bounds() physics.Area {
	return a.Circle().Bounds()
}

// Mass is proportional to the asteroid's volume.
func (a *Asteroid) Mass() float64 {
	return physics.SphereMass(a.Radius)
}

// Velocity returns the displacement applied by one Update.
func (a *Asteroid) Velocity() physics.Vector2D {
	return physics.Heading(a.Angle, a.Speed)
}

// Next returns where the asteroid will be after one more tick.
func (a *Asteroid) Next() physics.Vector2D {
	return a.Position.Add(a.Velocity())
}

// Update implements Body. An asteroid entirely outside world is killed
// before it moves.
func (a *Asteroid) Update(world physics.Area, _ time.Duration) {
	if !a.Active {
		return
	}
	if !a.Bounds().Overlaps(world) {
		a.Kill()
		return
	}
	a.Position = a.Next()
}

// TakeDamage lowers health and reports whether the asteroid is destroyed.
func (a *Asteroid) TakeDamage(amount float64) bool {
	a.Health -= amount
	return a.Health <= 0
}

// CanSplit reports whether the asteroid is large enough to break apart.
func (a *Asteroid) CanSplit(rules SplitRules) bool {
	return a.Radius >= rules.MinRadius
}

// Split breaks the asteroid into fragments placed at its position. Each
// fragment gets mass/(count+2) of the parent mass, so most of the mass is
// lost to the explosion. Asteroids below the split radius yield nothing.
func (a *Asteroid) Split(rng *rand.Rand, rules SplitRules) []*Asteroid {
	if !a.CanSplit(rules) {
		return nil
	}

	count := rules.MinCount
	if rules.MaxCount > rules.MinCount {
		count += rng.IntN(rules.MaxCount - rules.MinCount + 1)
	}
	if count <= 0 {
		return nil
	}

	childMass := math.Floor(a.Mass() / float64(count+2))
	childRadius := physics.SphereRadius(childMass)
	childSpeed := a.Speed * rules.SpeedFactor

	fragments := make([]*Asteroid, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64()
		if rng.IntN(2) == 0 {
			angle = -angle
		}
		fragments = append(fragments, NewAsteroid(
			a.Position, childRadius, childSpeed, angle, rng.IntN(SkinCount),
		))
	}
	return fragments
}
