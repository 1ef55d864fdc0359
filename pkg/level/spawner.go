// pkg/level/spawner.go
package level

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// interval is the spawn period shared by both spawners. Each level shortens
// the period by delta down to floor.
type interval struct {
	start time.Duration
	delta time.Duration
	floor time.Duration
	last  time.Duration
}

func (iv *interval) at(level int) time.Duration {
	return max(iv.start-time.Duration(level)*iv.delta, iv.floor)
}

// due reports whether a spawn is due at now and, if so, restarts the period.
func (iv *interval) due(now time.Duration, level int) bool {
	if now-iv.last < iv.at(level) {
		return false
	}
	iv.last = now
	return true
}

// AsteroidSpawner drops asteroids from the top edge. Its level selects both
// the spawn period and the weighting over asteroid types: higher levels
// favor the later, larger types.
type AsteroidSpawner struct {
	types   []config.AsteroidType
	weights []float64
	world   physics.Area
	timer   interval
	level   int
}

// NewAsteroidSpawner builds a spawner over types, which must be non-empty.
// The spawn period starts at start and never drops below minInterval.
func NewAsteroidSpawner(types []config.AsteroidType, start, minInterval time.Duration, world physics.Area) (*AsteroidSpawner, error) {
	if len(types) == 0 {
		return nil, errors.New("level: asteroid spawner needs at least one type")
	}
	n := time.Duration(len(types))
	delta := (start - start/n) / n

	s := &AsteroidSpawner{
		types: types,
		world: world,
		timer: interval{start: start, delta: delta, floor: max(minInterval, delta)},
	}
	s.weights = typeWeights(len(types), 1)
	return s, nil
}

// typeWeights returns i^k·e^(-i)/k! for i = 1..n. Raising k shifts the peak
// toward higher indices.
func typeWeights(n, k int) []float64 {
	kf := float64(k)
	fact := math.Gamma(kf + 1)
	w := make([]float64, n)
	for i := 1; i <= n; i++ {
		fi := float64(i)
		w[i-1] = math.Pow(fi, kf) * math.Exp(-fi) / fact
	}
	return w
}

// Weights returns the current type weights.
func (s *AsteroidSpawner) Weights() []float64 {
	return append([]float64(nil), s.weights...)
}

// Interval returns the current spawn period.
func (s *AsteroidSpawner) Interval() time.Duration {
	return s.timer.at(s.level)
}

// Current implements Managed.
func (s *AsteroidSpawner) Current() int { return s.level }

// LevelUp implements Managed. The spawner has one level per asteroid type.
func (s *AsteroidSpawner) LevelUp() {
	if s.level >= len(s.types)-1 {
		return
	}
	s.level++
	s.weights = typeWeights(len(s.types), s.level+1)
}

// LevelDown implements Managed.
func (s *AsteroidSpawner) LevelDown() {
	if s.level == 0 {
		return
	}
	s.level--
	s.weights = typeWeights(len(s.types), s.level+1)
}

// Reset implements Managed.
func (s *AsteroidSpawner) Reset() {
	s.level = 0
	s.weights = typeWeights(len(s.types), 1)
}

// Generate returns a new asteroid when the spawn period has elapsed since the
// previous one, else nil.
func (s *AsteroidSpawner) Generate(now time.Duration, rng *rand.Rand) *entity.Asteroid {
	if !s.timer.due(now, s.level) {
		return nil
	}
	t := s.types[pickWeighted(rng, s.weights)]

	radius := t.MinRadius
	if t.MaxRadius > t.MinRadius {
		radius += rng.IntN(t.MaxRadius - t.MinRadius + 1)
	}
	speed := t.MinSpeed + rng.Float64()*(t.MaxSpeed-t.MinSpeed)

	// Heading π points down the screen; spread by up to 45° either way.
	spread := rng.Float64() * math.Pi / 4
	if rng.IntN(2) == 0 {
		spread = -spread
	}

	r := float64(radius)
	x := randomBetween(rng, float64(s.world.TopLeft.X)+r, float64(s.world.BottomRight.X)-r)
	pos := physics.Vector2D{X: x, Y: float64(s.world.TopLeft.Y) - r + 1}

	return entity.NewAsteroid(pos, r, speed, math.Pi+spread, rng.IntN(entity.SkinCount))
}

func pickWeighted(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	x := rng.Float64() * total
	for i, w := range weights {
		if x < w {
			return i
		}
		x -= w
	}
	return len(weights) - 1
}

func randomBetween(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}

// PowerupSpawner places a random powerup somewhere in the world on a period
// that shortens with every level.
type PowerupSpawner struct {
	spec     entity.PowerupSpec
	world    physics.Area
	timer    interval
	level    int
	maxLevel int
}

// NewPowerupSpawner builds a spawner for maxLevel game levels.
func NewPowerupSpawner(spec entity.PowerupSpec, start, minInterval time.Duration, maxLevel int, world physics.Area) *PowerupSpawner {
	maxLevel = max(maxLevel, 1)
	delta := start / time.Duration(maxLevel)
	return &PowerupSpawner{
		spec:     spec,
		world:    world,
		timer:    interval{start: start, delta: delta, floor: max(minInterval, delta)},
		maxLevel: maxLevel,
	}
}

// Interval returns the current spawn period.
func (s *PowerupSpawner) Interval() time.Duration {
	return s.timer.at(s.level)
}

// Current implements Managed.
func (s *PowerupSpawner) Current() int { return s.level }

// LevelUp implements Managed.
func (s *PowerupSpawner) LevelUp() {
	if s.level < s.maxLevel-1 {
		s.level++
	}
}

// LevelDown implements Managed.
func (s *PowerupSpawner) LevelDown() {
	if s.level > 0 {
		s.level--
	}
}

// Reset implements Managed.
func (s *PowerupSpawner) Reset() { s.level = 0 }

// Generate returns a powerup of a random type when one is due, else nil.
func (s *PowerupSpawner) Generate(now time.Duration, rng *rand.Rand) *entity.Powerup {
	if !s.timer.due(now, s.level) {
		return nil
	}
	typ := entity.PowerupType(rng.IntN(int(entity.PowerupTypeCount)))
	half := s.spec.Size / 2
	pos := physics.Vector2D{
		X: randomBetween(rng, float64(s.world.TopLeft.X)+half, float64(s.world.BottomRight.X)-half),
		Y: randomBetween(rng, float64(s.world.TopLeft.Y)+half, float64(s.world.BottomRight.Y)-half),
	}
	return entity.NewPowerup(typ, pos, now, s.spec)
}
