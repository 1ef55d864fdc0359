package level

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/entity"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

func testWorld() physics.Area {
	return physics.NewArea(physics.Point{}, physics.Point{X: 1100, Y: 900})
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func TestNewAsteroidSpawner_RequiresTypes(t *testing.T) {
	_, err := NewAsteroidSpawner(nil, time.Second, 0, testWorld())
	require.Error(t, err)
}

func TestAsteroidSpawner_Interval(t *testing.T) {
	types := config.DefaultConfig().Asteroids.Types
	s, err := NewAsteroidSpawner(types, 2500*time.Millisecond, 150*time.Millisecond, testWorld())
	require.NoError(t, err)

	tests := []struct {
		level int
		want  time.Duration
	}{
		{0, 2500 * time.Millisecond},
		{1, 2031250 * time.Microsecond},
		{2, 1562500 * time.Microsecond},
		{3, 1093750 * time.Microsecond},
	}
	for _, tt := range tests {
		s.Reset()
		for i := 0; i < tt.level; i++ {
			s.LevelUp()
		}
		assert.Equal(t, tt.level, s.Current())
		assert.Equal(t, tt.want, s.Interval(), "level %d", tt.level)
	}

	for i := 0; i < 10; i++ {
		s.LevelUp()
	}
	assert.Equal(t, len(types)-1, s.Current(), "one level per asteroid type")

	s.LevelDown()
	assert.Equal(t, len(types)-2, s.Current())
}

func TestAsteroidSpawner_WeightsShiftTowardLargeTypes(t *testing.T) {
	types := config.DefaultConfig().Asteroids.Types
	s, err := NewAsteroidSpawner(types, time.Second, 0, testWorld())
	require.NoError(t, err)

	assert.Equal(t, 0, argmax(s.Weights()))
	for i := 0; i < len(types); i++ {
		s.LevelUp()
	}
	assert.Equal(t, len(types)-1, argmax(s.Weights()))

	s.Reset()
	assert.Equal(t, 0, argmax(s.Weights()))
}

func TestAsteroidSpawner_Generate(t *testing.T) {
	types := config.DefaultConfig().Asteroids.Types
	s, err := NewAsteroidSpawner(types, 2500*time.Millisecond, 150*time.Millisecond, testWorld())
	require.NoError(t, err)
	rng := newRand()

	assert.Nil(t, s.Generate(0, rng), "first spawn waits a full period")
	assert.Nil(t, s.Generate(2499*time.Millisecond, rng))

	a := s.Generate(2500*time.Millisecond, rng)
	require.NotNil(t, a)
	assert.Nil(t, s.Generate(2600*time.Millisecond, rng), "period restarts after a spawn")

	assert.True(t, a.Alive())
	assert.GreaterOrEqual(t, a.Radius, 10.0)
	assert.LessOrEqual(t, a.Radius, 70.0)
	assert.Equal(t, -a.Radius+1, a.Position.Y)
	assert.GreaterOrEqual(t, a.Position.X, a.Radius)
	assert.LessOrEqual(t, a.Position.X, 1100-a.Radius)
	assert.InDelta(t, math.Pi, a.Angle, math.Pi/4+1e-9)
	assert.True(t, a.Bounds().Overlaps(testWorld()), "a fresh asteroid must not be culled")
	assert.Greater(t, a.Velocity().Y, 0.0, "asteroids fall down the screen")
}

func TestAsteroidSpawner_RespectsTypeRanges(t *testing.T) {
	types := []config.AsteroidType{{Name: "only", MinRadius: 33, MaxRadius: 35, MinSpeed: 1, MaxSpeed: 2}}
	s, err := NewAsteroidSpawner(types, time.Millisecond, 0, testWorld())
	require.NoError(t, err)
	rng := newRand()

	for i := 1; i <= 50; i++ {
		a := s.Generate(time.Duration(i)*time.Millisecond, rng)
		require.NotNil(t, a)
		assert.Contains(t, []float64{33, 34, 35}, a.Radius)
		assert.GreaterOrEqual(t, a.Speed, 1.0)
		assert.LessOrEqual(t, a.Speed, 2.0)
		assert.GreaterOrEqual(t, a.Skin, 0)
		assert.Less(t, a.Skin, entity.SkinCount)
	}
}

func TestAsteroidSpawner_Deterministic(t *testing.T) {
	types := config.DefaultConfig().Asteroids.Types
	run := func() []float64 {
		s, err := NewAsteroidSpawner(types, 10*time.Millisecond, 0, testWorld())
		require.NoError(t, err)
		rng := newRand()
		var out []float64
		for i := 1; i <= 20; i++ {
			if a := s.Generate(time.Duration(i)*10*time.Millisecond, rng); a != nil {
				out = append(out, a.Radius, a.Position.X, a.Angle)
			}
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestPowerupSpawner_Interval(t *testing.T) {
	s := NewPowerupSpawner(entity.DefaultPowerupSpec(), 10*time.Second, 4*time.Second, 100, testWorld())

	assert.Equal(t, 10*time.Second, s.Interval())
	s.LevelUp()
	assert.Equal(t, 9900*time.Millisecond, s.Interval())

	for i := 0; i < 200; i++ {
		s.LevelUp()
	}
	assert.Equal(t, 99, s.Current())
	assert.Equal(t, 4*time.Second, s.Interval(), "period never drops below the floor")

	s.LevelDown()
	assert.Equal(t, 98, s.Current())
	s.Reset()
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 10*time.Second, s.Interval())
}

func TestPowerupSpawner_Generate(t *testing.T) {
	spec := entity.DefaultPowerupSpec()
	s := NewPowerupSpawner(spec, 10*time.Second, 4*time.Second, 100, testWorld())
	rng := newRand()

	assert.Nil(t, s.Generate(9*time.Second, rng))
	p := s.Generate(10*time.Second, rng)
	require.NotNil(t, p)

	assert.Equal(t, 10*time.Second, p.SpawnedAt)
	assert.Less(t, int(p.Type), int(entity.PowerupTypeCount))
	assert.GreaterOrEqual(t, p.Position.X, spec.Size/2)
	assert.LessOrEqual(t, p.Position.X, 1100-spec.Size/2)
	assert.GreaterOrEqual(t, p.Position.Y, spec.Size/2)
	assert.LessOrEqual(t, p.Position.Y, 900-spec.Size/2)

	seen := map[entity.PowerupType]bool{}
	for i := 1; i <= 60; i++ {
		if p := s.Generate(10*time.Second+time.Duration(i)*10*time.Second, rng); p != nil {
			seen[p.Type] = true
		}
	}
	assert.Len(t, seen, int(entity.PowerupTypeCount), "every type is eventually generated")
}
