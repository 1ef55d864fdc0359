// pkg/engine/metrics.go
package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/opd-ai/go-asteroids/pkg/entity"
)

const (
	kindLabel = "kind"
	pairLabel = "pair"
)

var (
	simTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "asteroids_ticks_total",
		Help: "The number of simulated ticks.",
	})

	simTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "asteroids_tick_duration_seconds",
		Help:    "The wall time spent computing one tick.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	})

	simCollisionLeaves = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "asteroids_collision_leaves",
		Help: "The number of collision leaves in the last tick.",
	})

	simPairsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asteroids_pairs_resolved_total",
		Help: "The number of candidate pairs that reached a handler.",
	}, []string{pairLabel})

	simBodiesSpawned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asteroids_bodies_spawned_total",
		Help: "The number of bodies that joined the simulation.",
	}, []string{kindLabel})

	simBodiesDestroyed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "asteroids_bodies_destroyed_total",
		Help: "The number of bodies removed from the simulation.",
	}, []string{kindLabel})

	simBodies = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "asteroids_bodies",
		Help: "The number of live bodies.",
	}, []string{kindLabel})

	simLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "asteroids_level",
		Help: "The current game level.",
	})
)

func instrumentTick(start time.Time, leaves int) {
	simTicks.Inc()
	simTickDuration.Observe(time.Since(start).Seconds())
	simCollisionLeaves.Set(float64(leaves))
}

// pairName labels a kind pair independently of argument order.
func pairName(a, b entity.Kind) string {
	if a > b {
		a, b = b, a
	}
	return a.String() + "/" + b.String()
}

func instrumentPairResolved(a, b entity.Kind) {
	simPairsResolved.
		With(prometheus.Labels{pairLabel: pairName(a, b)}).
		Inc()
}

func instrumentBodySpawned(kind entity.Kind) {
	labels := prometheus.Labels{kindLabel: kind.String()}
	simBodiesSpawned.With(labels).Inc()
	simBodies.With(labels).Inc()
}

func instrumentBodyDestroyed(kind entity.Kind) {
	labels := prometheus.Labels{kindLabel: kind.String()}
	simBodiesDestroyed.With(labels).Inc()
	simBodies.With(labels).Dec()
}

func instrumentLevel(level int) {
	simLevel.Set(float64(level))
}
