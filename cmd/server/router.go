package main

import (
	"net/http"

	"github.com/chetarea/tarea-api/internal/api"
	apiMiddleware "github.com/chetarea/tarea-api/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter builds the HTTP handler tree from the application's services.
func (app *application) setupRouter() http.Handler {
	authHandler := api.NewAuthHandler(app.authService, app.userService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.sweeper, app.logger)
	tagHandler := api.NewTagHandler(app.tagService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	healthHandler := api.NewHealthHandler(app.startedAt)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore, app.logger)

	return newRouter(routerHandlers{
		auth:       authHandler,
		tasks:      taskHandler,
		tags:       tagHandler,
		users:      userHandler,
		health:     healthHandler,
		authMW:     authMiddleware,
		traceMW:    apiMiddleware.NewTraceMiddleware(app.logger),
		requestLog: middleware.Logger,
	})
}

type routerHandlers struct {
	auth       *api.AuthHandler
	tasks      *api.TaskHandler
	tags       *api.TagHandler
	users      *api.UserHandler
	health     *api.HealthHandler
	authMW     *apiMiddleware.AuthMiddleware
	traceMW    func(http.Handler) http.Handler
	requestLog func(http.Handler) http.Handler
}

func newRouter(h routerHandlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if h.requestLog != nil {
		r.Use(h.requestLog)
	}
	r.Use(middleware.Recoverer)
	r.Use(h.traceMW)

	r.Get("/health", h.health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.auth.Register)
		r.Post("/auth/login", h.auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMW.Authenticate)

			r.Get("/auth/me", h.auth.Me)
			r.Put("/auth/profile", h.auth.UpdateProfile)
			r.Put("/auth/password", h.auth.ChangePassword)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.tasks.List)
				r.Post("/", h.tasks.Create)
				r.With(apiMiddleware.RequireAdmin).Post("/cleanup", h.tasks.Cleanup)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.tasks.Get)
					r.Put("/", h.tasks.Update)
					r.Delete("/", h.tasks.Delete)
					r.Post("/subtasks", h.tasks.AddSubtask)
					r.Put("/subtasks/{subtaskID}", h.tasks.UpdateSubtask)
					r.Delete("/subtasks/{subtaskID}", h.tasks.DeleteSubtask)
					r.Post("/comments", h.tasks.AddComment)
					r.Put("/restore", h.tasks.Restore)
					r.Put("/approve", h.tasks.Approve)
				})
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", h.tags.List)
				r.Post("/", h.tags.Create)
				r.Get("/{id}", h.tags.Get)
				r.Put("/{id}", h.tags.Update)
				r.Delete("/{id}", h.tags.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)

				r.Get("/", h.users.List)
				r.Post("/", h.users.Create)
				r.Get("/{id}", h.users.Get)
				r.Put("/{id}", h.users.Update)
				r.Delete("/{id}", h.users.Deactivate)
				r.Put("/{id}/reset-password", h.users.ResetPassword)
			})
		})
	})

	return r
}
