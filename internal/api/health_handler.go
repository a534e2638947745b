package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskflow/taskflow-api/internal/api/shared"
)

// Pinger reports whether the backing database is reachable. *sql.DB
// satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of the basic health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// DetailedHealthResponse adds dependency state and the running version.
type DetailedHealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Version   string    `json:"version"`
}

// HealthHandler serves liveness and readiness information.
type HealthHandler struct {
	db      Pinger
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, version string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for HealthHandler")
	}

	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Health handles GET /health requests. It reports process liveness only
// and never touches the database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

// DetailedHealth handles GET /health/detailed requests. The response is
// always 200; database trouble is reported in the body so that monitors
// can distinguish "down" from "degraded".
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	database := "connected"
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database ping failed", slog.String("error", err.Error()))
		status = "degraded"
		database = "disconnected"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DetailedHealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Database:  database,
		Version:   h.version,
	})
}

// ServiceInfoHandler serves the root info document.
type ServiceInfoHandler struct {
	name    string
	version string
}

// NewServiceInfoHandler creates a new ServiceInfoHandler
func NewServiceInfoHandler(name, version string) *ServiceInfoHandler {
	return &ServiceInfoHandler{name: name, version: version}
}

// Info handles GET / requests
func (h *ServiceInfoHandler) Info(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ServiceInfoResponse{
		Name:    h.name,
		Version: h.version,
		Status:  "running",
		Health:  "/health",
	})
}
