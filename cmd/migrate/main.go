// Package main provides the migration runner for the character store schema.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/aspectsofpower/ruleset/internal/config"
	"github.com/aspectsofpower/ruleset/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	sourceURL := flag.String("source", "file://migrations", "migration source URL")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewComponentLogger(cfg.Logging, "migrate")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	m, err := migrate.New(*sourceURL, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("creating migrator", zap.Error(err))
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	default:
		logger.Fatal("invalid direction, must be 'up' or 'down'", zap.String("direction", *direction))
	}

	if err != nil && err != migrate.ErrNoChange {
		logger.Fatal("migration failed", zap.Error(err))
	}

	version, dirty, _ := m.Version()
	if err == migrate.ErrNoChange {
		logger.Info("no changes",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
			zap.Duration("elapsed", time.Since(start)),
		)
	} else {
		logger.Info("migrated",
			zap.String("direction", *direction),
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
