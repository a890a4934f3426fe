// Package main is the entry point for the tarea API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/chetarea/tarea-api/internal/config"
	"github.com/chetarea/tarea-api/internal/platform/logger"
	"github.com/chetarea/tarea-api/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run a migration command (up, down, status, version) and exit")
	flag.Parse()

	os.Exit(run(*migrateCmd))
}

func run(migrateCmd string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logger: %v\n", err)
		return 1
	}

	db, err := setupDatabase(cfg, log)
	if err != nil {
		log.Error("database setup failed", slog.String("error", redact.Error(err)))
		return 1
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		if err := runMigrations(db, migrateCmd, log); err != nil {
			log.Error("migration failed",
				slog.String("command", migrateCmd),
				slog.String("error", redact.Error(err)))
			return 1
		}
		return 0
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		log.Error("application initialization failed", slog.String("error", redact.Error(err)))
		return 1
	}

	return app.Run(context.Background())
}
