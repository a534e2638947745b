package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taskflow/taskflow-api/internal/api"
	apiMiddleware "github.com/taskflow/taskflow-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	healthHandler := api.NewHealthHandler(app.db, app.config.App.Version, app.logger)
	infoHandler := api.NewServiceInfoHandler(app.config.App.Name, app.config.App.Version)

	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.Get("/search", taskHandler.SearchTasks)
		r.Get("/statistics", taskHandler.GetStatistics)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTask)
			r.Put("/", taskHandler.UpdateTask)
			r.Patch("/", taskHandler.UpdateTask)
			r.Delete("/", taskHandler.DeleteTask)
			r.Patch("/status", taskHandler.UpdateTaskStatus)
			r.Patch("/priority", taskHandler.UpdateTaskPriority)
		})
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/health/detailed", healthHandler.DetailedHealth)
	r.Get("/", infoHandler.Info)

	return r
}
