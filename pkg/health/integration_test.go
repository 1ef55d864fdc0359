package health

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/engine"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

// TestHealthCheckIntegration wires the checks to a real simulation.
func TestHealthCheckIntegration(t *testing.T) {
	game, err := engine.NewGame(config.DefaultConfig(), engine.WithoutSpawning())
	require.NoError(t, err)
	game.AddShip(physics.Vector2D{X: 550, Y: 800})

	healthChecker := NewHealthChecker()
	healthChecker.AddCheck(NewGameEngineHealthCheck(
		func() bool { return game.CurrentStatus() == engine.GameStatusActive },
	))
	clock := time.Unix(0, 0)
	healthChecker.AddCheck(newTickProgressCheck(game.Ticks, time.Second, func() time.Time { return clock }))

	t.Run("health checks before start", func(t *testing.T) {
		health := healthChecker.CheckHealth(context.Background())

		if health.Checks["game_engine"].Status != StatusUnhealthy {
			t.Error("Game engine should be unhealthy before start")
		}
		if health.Checks["tick_progress"].Status != StatusHealthy {
			t.Error("Tick progress should be healthy inside the stall window")
		}
		if health.Status != StatusUnhealthy {
			t.Error("Overall status should be unhealthy before start")
		}
	})

	game.Start()
	for i := 0; i < 5; i++ {
		game.Update()
	}
	clock = clock.Add(10 * time.Second)

	t.Run("health checks while ticking", func(t *testing.T) {
		health := healthChecker.CheckHealth(context.Background())
		if health.Status != StatusHealthy {
			t.Errorf("Overall status should be healthy while ticking, got: %+v", health.Checks)
		}
	})

	t.Run("readiness endpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		healthChecker.ReadinessHandler(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status code %d, got %d", http.StatusOK, w.Code)
		}

		var response HealthStatus
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		assert.Equal(t, StatusHealthy, response.Status)
		assert.Len(t, response.Checks, 2)
	})

	t.Run("stalled tick loop", func(t *testing.T) {
		clock = clock.Add(10 * time.Second)
		health := healthChecker.CheckHealth(context.Background())
		assert.Equal(t, StatusUnhealthy, health.Checks["tick_progress"].Status)
		assert.Contains(t, health.Checks["tick_progress"].Message, "tick 5")
	})

	game.Stop()

	t.Run("health checks after stop", func(t *testing.T) {
		health := healthChecker.CheckHealth(context.Background())
		assert.Equal(t, StatusUnhealthy, health.Checks["game_engine"].Status)
	})
}

// TestHealthCheckWithFailures tests health check behavior when components fail
func TestHealthCheckWithFailures(t *testing.T) {
	healthChecker := NewHealthChecker()

	// Add a check that will fail
	failingCheck := &mockHealthCheck{
		name:    "failing_component",
		healthy: false,
		err:     fmt.Errorf("component is down"),
	}

	healthChecker.AddCheck(failingCheck)

	t.Run("readiness endpoint with failures", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		healthChecker.ReadinessHandler(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status code %d, got %d", http.StatusServiceUnavailable, w.Code)
		}

		var response HealthStatus
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if response.Status != "unhealthy" {
			t.Errorf("Expected status 'unhealthy', got %s", response.Status)
		}

		if response.Checks["failing_component"].Status != "unhealthy" {
			t.Error("Failing component should be marked as unhealthy")
		}

		if response.Checks["failing_component"].Message == "" {
			t.Error("Failing component should have an error message")
		}
	})
}

// TestMemoryHealthCheckIntegration tests memory health check with real memory stats
func TestMemoryHealthCheckIntegration(t *testing.T) {
	healthChecker := NewHealthChecker()

	// Add memory check with very high limit (should pass)
	memoryCheck := NewMemoryHealthCheck(10000, CurrentMemoryMB) // 10GB limit
	healthChecker.AddCheck(memoryCheck)

	t.Run("memory check with high limit", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		health := healthChecker.CheckHealth(ctx)

		if health.Checks["memory"].Status != "healthy" {
			t.Errorf("Memory check should be healthy with high limit, got: %s",
				health.Checks["memory"].Message)
		}
	})

	// Remove the previous check and add one with very low limit (should fail)
	healthChecker.RemoveCheck("memory")

	// Use a mock function that returns high memory usage
	mockHighMemory := func() int64 { return 100 }              // 100MB usage
	lowMemoryCheck := NewMemoryHealthCheck(50, mockHighMemory) // 50MB limit
	healthChecker.AddCheck(lowMemoryCheck)

	t.Run("memory check with low limit", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		health := healthChecker.CheckHealth(ctx)

		if health.Checks["memory"].Status != "unhealthy" {
			t.Error("Memory check should be unhealthy with low limit")
		}

		if health.Status != "unhealthy" {
			t.Error("Overall status should be unhealthy due to memory limit")
		}
	})
}
