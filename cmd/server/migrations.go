package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/chetarea/tarea-api/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// gooseLogger forwards goose output to slog. Fatalf does not exit so the
// caller decides the process exit code.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// runMigrations applies a goose command against the embedded migrations.
func runMigrations(db *sql.DB, command string, log *slog.Logger) error {
	log = log.With(slog.String("component", "migrations"))

	goose.SetLogger(gooseLogger{logger: log})
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(postgres.MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	log.Info("running migrations", slog.String("command", command))

	var err error
	switch command {
	case "up":
		err = goose.Up(db, postgres.MigrationsDir)
	case "down":
		err = goose.Down(db, postgres.MigrationsDir)
	case "status":
		err = goose.Status(db, postgres.MigrationsDir)
	case "version":
		err = goose.Version(db, postgres.MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or version)", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migrations finished", slog.String("command", command))
	return nil
}
