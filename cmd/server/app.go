package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/chetarea/tarea-api/internal/config"
	"github.com/chetarea/tarea-api/internal/domain/lifecycle"
	"github.com/chetarea/tarea-api/internal/platform/postgres"
	"github.com/chetarea/tarea-api/internal/retention"
	"github.com/chetarea/tarea-api/internal/service"
	"github.com/chetarea/tarea-api/internal/service/auth"
	"github.com/chetarea/tarea-api/internal/store"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	startedAt time.Time

	userStore store.UserStore
	taskStore *postgres.PostgresTaskStore
	tagStore  store.TagStore

	jwtService auth.JWTService

	authService service.AuthService
	userService service.UserService
	taskService service.TaskService
	tagService  service.TagService

	sweeper *retention.Sweeper
}

// newApplication wires stores, services and the retention sweeper on top of
// an established database connection.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    log,
		db:        db,
		startedAt: time.Now().UTC(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	verifier := auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, log)
	app.taskStore = postgres.NewPostgresTaskStore(db, log)
	app.tagStore = postgres.NewPostgresTagStore(db, log)

	policy := lifecycle.NewPolicy(cfg.Retention.Period())

	app.userService = service.NewUserService(app.userStore, app.tagStore, hasher, verifier, log)
	app.authService = service.NewAuthService(app.userService, app.userStore, app.jwtService, verifier, log)
	app.taskService = service.NewTaskService(app.taskStore, app.userStore, app.tagStore, policy, log)
	app.tagService = service.NewTagService(app.tagStore, app.taskStore, db, log)

	location, err := cfg.Retention.Location()
	if err != nil {
		return nil, err
	}
	app.sweeper, err = retention.NewSweeper(app.taskStore, retention.SystemClock{}, cfg.Retention.Schedule, location, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create retention sweeper: %w", err)
	}

	log.Info("application initialized",
		slog.Int("retention_days", cfg.Retention.Days),
		slog.Bool("retention_enabled", cfg.Retention.Enabled))
	return app, nil
}
