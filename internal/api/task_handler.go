// Package api provides HTTP handlers for the API.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow/taskflow-api/internal/api/shared"
	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/platform/logger"
	"github.com/taskflow/taskflow-api/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/v1/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), service.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondWithMappedError(w, r, err, 0)
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/v1/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		h.respondWithMappedError(w, r, err, id)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ListTasks handles GET /api/v1/tasks requests.
// Supported query parameters: skip, limit, status, priority.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	params := service.ListParams{}

	var ok bool
	params.Skip, params.Limit, ok = h.pageParams(w, r)
	if !ok {
		return
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.Valid() {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Invalid status %q", raw))
			return
		}
		params.Status = &status
	}
	if raw := r.URL.Query().Get("priority"); raw != "" {
		priority := domain.TaskPriority(raw)
		if !priority.Valid() {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Invalid priority %q", raw))
			return
		}
		params.Priority = &priority
	}

	page, err := h.taskService.List(r.Context(), params)
	if err != nil {
		h.respondWithMappedError(w, r, err, 0)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// SearchTasks handles GET /api/v1/tasks/search requests.
// The q parameter is required; matching is a case-insensitive substring
// test against title and description.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Search query cannot be empty")
		return
	}

	skip, limit, ok := h.pageParams(w, r)
	if !ok {
		return
	}

	page, err := h.taskService.Search(r.Context(), query, skip, limit)
	if err != nil {
		h.respondWithMappedError(w, r, err, 0)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// GetStatistics handles GET /api/v1/tasks/statistics requests
func (h *TaskHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.Statistics(r.Context())
	if err != nil {
		h.respondWithMappedError(w, r, err, 0)
		return
	}

	response := StatisticsResponse{
		TotalTasks: stats.TotalTasks,
		ByStatus:   make(map[string]int64, len(stats.ByStatus)),
		ByPriority: make(map[string]int64, len(stats.ByPriority)),
	}
	for status, count := range stats.ByStatus {
		response.ByStatus[string(status)] = count
	}
	for priority, count := range stats.ByPriority {
		response.ByPriority[string(priority)] = count
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// UpdateTask handles PUT and PATCH /api/v1/tasks/{id} requests.
// Both verbs share the same merge rule: fields absent from the body are
// left unchanged, explicit nulls clear nullable fields.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var patch domain.TaskUpdate
	if err := shared.DecodeJSON(r, &patch); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.taskService.Update(r.Context(), id, &patch)
	if err != nil {
		h.respondWithMappedError(w, r, err, id)
		return
	}

	log.Debug("task updated", slog.Int64("task_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTaskStatus handles PATCH /api/v1/tasks/{id}/status requests
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), id, domain.TaskStatus(req.Status))
	if err != nil {
		h.respondWithMappedError(w, r, err, id)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTaskPriority handles PATCH /api/v1/tasks/{id}/priority requests
func (h *TaskHandler) UpdateTaskPriority(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req UpdatePriorityRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.UpdatePriority(r.Context(), id, domain.TaskPriority(req.Priority))
	if err != nil {
		h.respondWithMappedError(w, r, err, id)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/v1/tasks/{id} requests.
// Deletion is permanent; a second delete of the same ID returns 404.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		h.respondWithMappedError(w, r, err, id)
		return
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// taskID extracts and parses the {id} path parameter. On failure it writes
// a 400 response and returns ok=false.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			fmt.Sprintf("Invalid task ID %q", raw))
		return 0, false
	}
	return id, true
}

// pageParams parses the optional skip and limit query parameters. Range
// checks against the configured bounds happen in the service; only
// malformed numbers are rejected here.
func (h *TaskHandler) pageParams(w http.ResponseWriter, r *http.Request) (int, *int, bool) {
	skip := 0
	if raw := r.URL.Query().Get("skip"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Invalid skip %q", raw))
			return 0, nil, false
		}
		skip = parsed
	}

	var limit *int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Invalid limit %q", raw))
			return 0, nil, false
		}
		limit = &parsed
	}

	return skip, limit, true
}

// respondWithMappedError translates a service or store error into the
// appropriate HTTP response. Not-found responses name the task ID.
func (h *TaskHandler) respondWithMappedError(w http.ResponseWriter, r *http.Request, err error, id int64) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	if status == http.StatusNotFound && id > 0 {
		message = fmt.Sprintf("Task with id %d not found", id)
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
