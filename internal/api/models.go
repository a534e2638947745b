package api

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/service"
)

// Common request/response structures

// CreateTaskRequest defines the payload for the task creation endpoint.
// Status and priority are optional and default to "pending" and "medium".
type CreateTaskRequest struct {
	Title       string       `json:"title"       validate:"required,max=200"`
	Description *string      `json:"description"`
	Status      string       `json:"status"      validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string       `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *domain.Date `json:"due_date"`
}

// UpdateStatusRequest defines the payload for the status-only update endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// UpdatePriorityRequest defines the payload for the priority-only update endpoint.
type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=low medium high"`
}

// TaskResponse represents the response data for a single task.
type TaskResponse struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     *domain.Date `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskListResponse is one page of tasks together with the total number of
// matches before pagination.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int64          `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

// StatisticsResponse represents the aggregate task counts.
type StatisticsResponse struct {
	TotalTasks int64            `json:"total_tasks"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
}

// ServiceInfoResponse is the document served at the service root.
type ServiceInfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Health  string `json:"health"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func pageToResponse(page *service.TaskPage) TaskListResponse {
	tasks := make([]TaskResponse, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		tasks = append(tasks, taskToResponse(task))
	}
	return TaskListResponse{
		Tasks: tasks,
		Total: page.Total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}
}
