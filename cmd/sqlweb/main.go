// SQLite Web Manager
//
// This is the main entry point for the sqlweb binary. It serves the HTTP
// administration API for a single SQLite database file and offers
// subcommands for inspecting and querying the same file from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nerrad567/sqlweb/internal/activity"
	"github.com/nerrad567/sqlweb/internal/api"
	"github.com/nerrad567/sqlweb/internal/infrastructure/config"
	"github.com/nerrad567/sqlweb/internal/infrastructure/database"
	"github.com/nerrad567/sqlweb/internal/infrastructure/influxdb"
	"github.com/nerrad567/sqlweb/internal/infrastructure/logging"
	"github.com/nerrad567/sqlweb/internal/infrastructure/mqtt"
	"github.com/nerrad567/sqlweb/internal/sqladmin"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path. Unlike a path given with --config or
// SQLWEB_CONFIG, it may be absent.
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the server logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - configPath: Value of the --config flag, may be empty
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting SQLite Web Manager",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log.Info("configuration loaded", "path", path)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	store := newStore(cfg)
	store.SetLogger(log)
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	log.Info("database reachable", "path", store.Path())
	log.Warn("the SQL console accepts any statement; do not expose this server to untrusted networks")

	// Optional change-event publisher. A failed broker connection is not
	// fatal: the API works without events.
	var (
		events     activity.EventPublisher
		mqttStatus api.Sink
	)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			log.Warn("MQTT unavailable, change events disabled", "error", mqttErr)
		} else {
			mqttClient.SetLogger(log)
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			log.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"client_id", cfg.MQTT.Broker.ClientID,
				"prefix", mqttClient.Topics().Prefix(),
			)
			events, mqttStatus = mqttClient, mqttClient
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Optional operation telemetry.
	var (
		metrics      activity.MetricWriter
		influxStatus api.Sink
	)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB, log)
		if influxErr != nil {
			log.Warn("InfluxDB unavailable, operation metrics disabled", "error", influxErr)
		} else {
			defer func() {
				log.Info("closing InfluxDB connection")
				if closeErr := influxClient.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			}()
			log.Info("InfluxDB connected",
				"url", cfg.InfluxDB.URL,
				"org", cfg.InfluxDB.Org,
				"bucket", cfg.InfluxDB.Bucket,
			)
			metrics, influxStatus = influxClient, influxClient
		}
	} else {
		log.Info("InfluxDB disabled")
	}

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Store:    store,
		Activity: activity.NewRecorder(events, metrics, log),
		MQTT:     mqttStatus,
		InfluxDB: influxStatus,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("SQLite Web Manager stopped")
	return nil
}

// getConfigPath returns the configuration file path and whether it was named
// explicitly. The --config flag wins over SQLWEB_CONFIG.
func getConfigPath(flag string) (string, bool) {
	if flag != "" {
		return flag, true
	}
	if path := os.Getenv("SQLWEB_CONFIG"); path != "" {
		return path, true
	}
	return defaultConfigPath, false
}

// loadConfig loads configuration from the resolved path. A missing default
// file means defaults plus environment; a missing explicit file is an error.
func loadConfig(flag string) (*config.Config, string, error) {
	path, explicit := getConfigPath(flag)
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

// newStore builds the data-access layer for the configured database file.
func newStore(cfg *config.Config) *sqladmin.Store {
	return sqladmin.NewStore(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
}

// newServeCmd creates the serve command, also run when no subcommand is given.
func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP administration API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *configPath)
		},
	}
}
