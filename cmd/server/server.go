package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chetarea/tarea-api/internal/redact"
	gfshutdown "github.com/gelmium/graceful-shutdown"
)

// Run starts the retention sweeper and the HTTP server, then blocks until a
// termination signal has been handled. It returns the process exit code.
func (app *application) Run(ctx context.Context) int {
	if app.config.Retention.Enabled {
		if err := app.sweeper.Start(ctx); err != nil {
			app.logger.Error("failed to start retention sweeper", slog.String("error", redact.Error(err)))
			app.closeDB()
			return 1
		}
	} else {
		app.logger.Info("retention sweeper disabled")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", slog.Int("port", app.config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		app.config.Server.ShutdownTimeout(),
		map[string]gfshutdown.Operation{
			"tarea-api": func(ctx context.Context) error {
				app.logger.Info("shutting down")
				return app.shutdown(ctx, srv)
			},
		},
	)

	select {
	case err := <-serverErr:
		app.logger.Error("server failed", slog.String("error", redact.Error(err)))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout())
		defer cancel()
		_ = app.shutdown(shutdownCtx, srv)
		return 1
	case code := <-wait:
		app.logger.Info("server stopped", slog.Int("exit_code", code))
		return code
	}
}

// shutdown drains HTTP requests, stops the sweeper and closes the pool, in
// that order.
func (app *application) shutdown(ctx context.Context, srv *http.Server) error {
	var errs []error

	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if err := app.sweeper.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("retention sweeper stop: %w", err))
	}
	if last, ok := app.sweeper.LastResult(); ok {
		app.logger.Info("last retention sweep",
			slog.Time("started_at", last.StartedAt),
			slog.Int64("deleted_count", last.DeletedCount),
			slog.Bool("succeeded", last.Succeeded()))
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	app.logger.Info("application shutdown completed")
	return nil
}

func (app *application) closeDB() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database connection", slog.String("error", redact.Error(err)))
	}
}
