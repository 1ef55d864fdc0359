// cmd/asteroids-sim/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opd-ai/go-asteroids/pkg/config"
	"github.com/opd-ai/go-asteroids/pkg/engine"
	"github.com/opd-ai/go-asteroids/pkg/health"
	"github.com/opd-ai/go-asteroids/pkg/logging"
	"github.com/opd-ai/go-asteroids/pkg/physics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	presetKey := flag.String("preset", "", "Difficulty preset applied on top of the configuration")
	listPresets := flag.Bool("presets", false, "List difficulty presets and exit")
	ships := flag.Int("ships", 1, "Number of autopilot ships")
	ticks := flag.Uint64("ticks", 0, "Stop after this many ticks (overrides ASTEROIDS_MAX_TICKS)")
	seed := flag.Uint64("seed", 0, "Random seed (0 keeps the configured seed)")
	flag.Parse()

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logging.NewLoggerWithWriter(os.Stdout, logging.ParseLevel(envConfig.LogLevel)).
		WithRunID(runID)
	ctx := logging.WithCorrelationID(context.Background(), runID)

	if *listPresets {
		presets := config.ListPresets()
		for _, key := range slices.Sorted(maps.Keys(presets)) {
			fmt.Printf("%-8s %s\n", key, presets[key].Description)
		}
		return nil
	}

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			return err
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return nil
	}

	gameConfig, err := loadGameConfig(ctx, logger, *configPath)
	if err != nil {
		return err
	}
	if *presetKey != "" {
		if err := config.ApplyPreset(gameConfig, *presetKey); err != nil {
			return err
		}
	}
	if *seed != 0 {
		gameConfig.World.Seed = *seed
	}
	if *ships < 1 {
		return fmt.Errorf("ships must be at least 1, got %d", *ships)
	}
	maxTicks := uint64(envConfig.MaxTicks)
	if *ticks != 0 {
		maxTicks = *ticks
	}

	game, err := engine.NewGame(gameConfig, engine.WithLogger(logger), engine.WithContext(ctx))
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		return err
	}
	placeShips(game, *ships)

	healthChecker := health.NewHealthChecker()
	healthChecker.AddCheck(health.NewGameEngineHealthCheck(
		func() bool { return game.CurrentStatus() == engine.GameStatusActive },
	))
	healthChecker.AddCheck(health.NewTickProgressCheck(game.Ticks, 5*time.Second))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(500, health.CurrentMemoryMB))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthChecker.LivenessHandler)
	mux.HandleFunc("/ready", healthChecker.ReadinessHandler)

	httpServer := &http.Server{
		Addr:         envConfig.MetricsAddr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Starting metrics and health server",
			"address", envConfig.MetricsAddr,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Metrics server failed", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pilot := autopilot{fire: !gameConfig.Ship.AutoFire}
	runErr := game.Run(runCtx, engine.RunOptions{
		MaxTicks:   maxTicks,
		Realtime:   envConfig.Realtime,
		BeforeTick: pilot.beforeTick,
	})
	game.Stop()

	state := game.GetGameState()
	logger.Info(ctx, "Simulation finished",
		"ticks", state.Tick,
		"simulated", state.Time.String(),
		"level", state.Level,
		"ships_left", len(state.Ships),
		"asteroids_left", len(state.Asteroids),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Metrics server shutdown failed", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return logging.WrapError(runErr, "simulation run")
	}
	return nil
}

// loadGameConfig reads path when it exists and applies environment
// overrides on top.
func loadGameConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	var gameConfig *config.GameConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		gameConfig = config.DefaultConfig()
	} else {
		gameConfig, err = config.LoadConfig(path)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", path,
			)
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		return nil, err
	}
	return gameConfig, nil
}

// placeShips spreads n ships evenly along the bottom of the world.
func placeShips(game *engine.Game, n int) {
	world := game.World()
	width := float64(world.Width())
	y := float64(world.BottomRight.Y) - 100
	for i := 0; i < n; i++ {
		x := float64(world.TopLeft.X) + width*float64(i+1)/float64(n+1)
		game.AddShip(physics.Vector2D{X: x, Y: y})
	}
}
