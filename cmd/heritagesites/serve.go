package main

import (
	"context"
	"fmt"

	"github.com/nerrad567/heritage-sites/internal/audit"
	"github.com/nerrad567/heritage-sites/internal/auth"
	"github.com/nerrad567/heritage-sites/internal/events"
	"github.com/nerrad567/heritage-sites/internal/heritage"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/database"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/influxdb"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/logging"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/mqtt"
	"github.com/nerrad567/heritage-sites/internal/location"
	"github.com/nerrad567/heritage-sites/internal/web"
)

// runServe wires the catalog and blocks until ctx is cancelled.
func runServe(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting heritage sites",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	users := auth.NewUserRepository(db.DB)
	if _, seedErr := auth.SeedAdmin(ctx, users, log.Logger); seedErr != nil {
		return fmt.Errorf("seeding admin: %w", seedErr)
	}

	checks := map[string]web.HealthChecker{"database": db}
	sinks := []events.Sink{events.MetricsSink{}}

	// Connect to MQTT broker (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.With("component", "mqtt"))
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		checks["mqtt"] = mqttClient
		sinks = append(sinks, events.NewMQTTSink(mqttClient))
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		checks["influxdb"] = influxClient
		sinks = append(sinks, events.NewPointSink(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	publisher := events.NewPublisher(log, sinks...)

	server, err := web.New(web.Deps{
		Server:    cfg.Server,
		Session:   cfg.Session,
		Catalog:   cfg.Catalog,
		Metrics:   cfg.Metrics,
		Logger:    log,
		Sites:     heritage.NewSQLiteRepository(db.DB),
		Locations: location.NewSQLiteRepository(db.DB),
		Users:     users,
		Audit:     audit.NewSQLiteRepository(db.DB),
		Events:    publisher,
		Checks:    checks,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting web server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing web server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal",
		"address", server.Addr(),
		"event_sinks", publisher.Sinks(),
	)

	<-ctx.Done()

	// Deferred Close() calls run in reverse order:
	// web server, InfluxDB, MQTT, database
	log.Info("shutdown signal received, cleaning up")
	return nil
}

// openDatabase opens SQLite and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("database connected", "path", cfg.Path)

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // best effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")
	return db, nil
}
