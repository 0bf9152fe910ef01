// fermsim - Fermentation Controller Simulator
//
// This is the main entry point for fermsim, a stand-in backend that
// speaks the same REST/WebSocket dialect as the brewery fermentation
// controller. It simulates:
//   - Eight fermentation vessels with temperature, pressure and PID state
//   - The glycol, cooling, spunding and heater relay board
//   - Digital I/O banks and Modbus transaction counters
//
// Dashboards, integration tests and operator tooling can develop against
// fermsim without hardware on the bench.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fermworks/fermsim/internal/api"
	"github.com/fermworks/fermsim/internal/history"
	"github.com/fermworks/fermsim/internal/infrastructure/config"
	"github.com/fermworks/fermsim/internal/infrastructure/logging"
	"github.com/fermworks/fermsim/internal/plant"
	"github.com/fermworks/fermsim/internal/session"
	"github.com/fermworks/fermsim/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting fermsim",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. A missing file is fine: the simulator then runs
	// on built-in defaults, which reproduce the controller's stock setup.
	configPath := getConfigPath()
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build the simulated plant. The seed fixes the noise trajectory, so
	// two runs with the same seed and request sequence report identical
	// sensor histories.
	store := plant.NewStore(plant.Options{
		Noise:             plant.NewNoise(cfg.Sim.Seed),
		InputToggleChance: cfg.Sim.InputToggleChance,
	})
	log.Info("plant initialised",
		"fermenters", plant.FermenterCount,
		"relays", plant.RelayCount,
		"seed", cfg.Sim.Seed,
	)

	// Operator session guard
	sessions := session.New(session.Options{
		Password: cfg.Auth.Password,
		Token:    cfg.Auth.Token,
	})

	// Connect to MQTT broker (optional)
	var mqttClient *telemetry.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = telemetry.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var recorder *history.Recorder
	if cfg.InfluxDB.Enabled {
		recorder, err = history.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := recorder.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		recorder.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:    cfg.API,
		WS:        cfg.WebSocket,
		Web:       cfg.Web,
		Logger:    log,
		Store:     store,
		Sessions:  sessions,
		Telemetry: mqttClient,
		History:   recorder,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"addr", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"websocket", cfg.WebSocket.Path,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, apiServer, mqttClient, recorder); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)

	log.Info("fermsim stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FERMSIM_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FERMSIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all running components are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - apiServer: API server to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - recorder: InfluxDB recorder to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, apiServer *api.Server, mqttClient *telemetry.Client, recorder *history.Recorder) error {
	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if recorder != nil {
		if err := recorder.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
