// Package health provides liveness and readiness probes for the headless
// asteroids runner. Checks are registered by name and aggregated into a
// single status that the HTTP handlers report as JSON.
package health

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/segmentio/encoding/json"
)

// Status values reported by the checker.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health status of the runner.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a health check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered health checks. The overall status is
// healthy only if every check passes.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}

	return status
}

// LivenessHandler answers 200 whenever the process can serve requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessHandler runs every check and answers 200 when all pass and 503
// otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)
	code := http.StatusOK
	if health.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// GameEngineHealthCheck fails while the simulation is not running.
type GameEngineHealthCheck struct {
	gameRunning func() bool
}

// NewGameEngineHealthCheck creates a health check for the game engine.
func NewGameEngineHealthCheck(gameRunning func() bool) *GameEngineHealthCheck {
	return &GameEngineHealthCheck{
		gameRunning: gameRunning,
	}
}

// Name returns the name of this health check.
func (g *GameEngineHealthCheck) Name() string {
	return "game_engine"
}

// Check verifies that the game engine is running.
func (g *GameEngineHealthCheck) Check(ctx context.Context) error {
	if !g.gameRunning() {
		return fmt.Errorf("game engine is not running")
	}
	return nil
}

// TickProgressCheck fails when the tick counter has not moved for longer
// than maxStall while the game runs.
type TickProgressCheck struct {
	ticks    func() uint64
	now      func() time.Time
	maxStall time.Duration

	mu       sync.Mutex
	lastTick uint64
	lastSeen time.Time
}

// NewTickProgressCheck watches the counter returned by ticks.
func NewTickProgressCheck(ticks func() uint64, maxStall time.Duration) *TickProgressCheck {
	return newTickProgressCheck(ticks, maxStall, time.Now)
}

func newTickProgressCheck(ticks func() uint64, maxStall time.Duration, now func() time.Time) *TickProgressCheck {
	return &TickProgressCheck{
		ticks:    ticks,
		now:      now,
		maxStall: maxStall,
		lastTick: ticks(),
		lastSeen: now(),
	}
}

// Name returns the name of this health check.
func (c *TickProgressCheck) Name() string {
	return "tick_progress"
}

// Check compares the current tick with the last one observed.
func (c *TickProgressCheck) Check(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tick, now := c.ticks(), c.now()
	if tick != c.lastTick {
		c.lastTick = tick
		c.lastSeen = now
		return nil
	}
	if stalled := now.Sub(c.lastSeen); stalled > c.maxStall {
		return fmt.Errorf("tick %d has not advanced for %s", tick, stalled)
	}
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// CurrentMemoryMB reports the heap currently allocated, in megabytes.
func CurrentMemoryMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
