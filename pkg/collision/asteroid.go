package collision

import (
	"math"

	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// AsteroidCollision bounces two asteroids off each other.
type AsteroidCollision struct {
	world  World
	first  *entity.Asteroid
	second *entity.Asteroid
}

// NewAsteroidCollision is the Factory for (Asteroid, Asteroid).
func NewAsteroidCollision(w World, a, b entity.Body) Handler {
	first, ok := a.(*entity.Asteroid)
	if !ok {
		return nil
	}
	second, ok := b.(*entity.Asteroid)
	if !ok {
		return nil
	}
	return &AsteroidCollision{world: w, first: first, second: second}
}

// Resolve implements Handler. Asteroids collide when their positions after
// one more step are closer than the sum of their radii; they then exchange
// speed along the contact normal and are pushed apart.
func (c *AsteroidCollision) Resolve() {
	a1, a2 := c.first, c.second
	if a1 == a2 || !a1.Alive() || !a2.Alive() {
		return
	}

	reach := a1.Radius + a2.Radius
	if a1.Next().Distance(a2.Next()) >= reach {
		return
	}

	d := a1.Position.Sub(a2.Position)
	distance := d.Length()
	normal := math.Atan2(d.Y, d.X) + math.Pi/2

	a1.Speed, a2.Speed = physics.ElasticSpeeds(a1.Mass(), a1.Speed, a2.Mass(), a2.Speed)
	a1.Angle += normal
	a2.Angle += normal + math.Pi

	overlap := 0.5 * (reach - distance + c.world.Rules().SeparationMargin)
	push := physics.Heading(normal, overlap)
	a1.Position = a1.Position.Add(push)
	a2.Position = a2.Position.Sub(push)
}
