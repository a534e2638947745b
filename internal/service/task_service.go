package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/platform/logger"
	"github.com/taskflow/taskflow-api/internal/store"
)

// TaskRepository defines the persistence interface required by the service
// layer. It mirrors store.TaskStore with transactional scoping expressed as
// a callback, so the service stays independent of database/sql.
type TaskRepository interface {
	// Create persists a new task, assigning its ID and timestamps.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns matching tasks plus the pre-pagination total.
	List(ctx context.Context, filter store.TaskFilter, page store.Page) ([]*domain.Task, int64, error)

	// Search returns substring matches plus the pre-pagination total.
	Search(ctx context.Context, query string, page store.Page) ([]*domain.Task, int64, error)

	// Update writes every mutable field of the task back to the store.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently.
	Delete(ctx context.Context, id int64) error

	// Statistics computes aggregate counts over all tasks.
	Statistics(ctx context.Context) (*store.TaskStatistics, error)

	// WithinTransaction runs fn against a transaction-scoped repository,
	// committing on nil and rolling back on error.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, r TaskRepository) error) error
}

// TaskCreate carries the attributes for a new task. Zero-valued status and
// priority take their documented defaults (pending, medium).
type TaskCreate struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *domain.Date
}

// ListParams selects and windows a task listing. A nil Limit means "use the
// configured default page size"; nil filters place no constraint.
type ListParams struct {
	Skip     int
	Limit    *int
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
}

// TaskPage is one window of an ordered task listing together with the total
// number of matches before the window was applied.
type TaskPage struct {
	Tasks []*domain.Task
	Total int64
	Skip  int
	Limit int
}

// TaskService provides task-related operations. All operations are stateless
// per call; store failures propagate to the caller without retry.
type TaskService interface {
	// Create persists a new task and returns it with its generated ID and
	// timestamps.
	Create(ctx context.Context, in TaskCreate) (*domain.Task, error)

	// Get retrieves a task by ID, failing with store.ErrTaskNotFound when
	// it does not exist.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// List returns tasks matching the params, most recently created first.
	List(ctx context.Context, params ListParams) (*TaskPage, error)

	// Search returns tasks whose title or description contains the query
	// as a case-insensitive substring.
	Search(ctx context.Context, query string, skip int, limit *int) (*TaskPage, error)

	// Update merges the patch into the task and returns the result.
	// Fields absent from the patch are left unchanged; present fields are
	// applied, including explicit nulls on nullable fields.
	Update(ctx context.Context, id int64, patch *domain.TaskUpdate) (*domain.Task, error)

	// UpdateStatus sets exactly the status field.
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)

	// UpdatePriority sets exactly the priority field.
	UpdatePriority(ctx context.Context, id int64, priority domain.TaskPriority) (*domain.Task, error)

	// Delete removes a task permanently. Deleting the same ID twice fails
	// with store.ErrTaskNotFound on the second call.
	Delete(ctx context.Context, id int64) error

	// Statistics returns aggregate counts over the full task set.
	Statistics(ctx context.Context) (*store.TaskStatistics, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo       TaskRepository
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	repo TaskRepository,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) (TaskService, error) {
	if repo == nil {
		return nil, domain.NewValidationError("repo", "cannot be nil", domain.ErrValidation)
	}
	if pagination.DefaultPageSize <= 0 || pagination.MaxPageSize < pagination.DefaultPageSize {
		return nil, domain.NewValidationError("pagination", "page size bounds are inconsistent", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		repo:       repo,
		pagination: pagination,
		logger:     logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, in TaskCreate) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(in.Title, in.Description, in.Status, in.Priority, in.DueDate)
	if err != nil {
		log.Warn("task rejected by domain validation",
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID))
	return task, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, err
		}
		log.Error("failed to retrieve task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, NewTaskServiceError("get", "failed to retrieve task", err)
	}

	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, params ListParams) (*TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page, err := s.resolvePage(params.Skip, params.Limit)
	if err != nil {
		return nil, err
	}

	if params.Status != nil && !params.Status.Valid() {
		return nil, domain.ErrInvalidTaskStatus
	}
	if params.Priority != nil && !params.Priority.Valid() {
		return nil, domain.ErrInvalidTaskPriority
	}

	filter := store.TaskFilter{Status: params.Status, Priority: params.Priority}
	tasks, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}

	return &TaskPage{Tasks: tasks, Total: total, Skip: page.Skip, Limit: page.Limit}, nil
}

// Search implements TaskService.Search
func (s *taskServiceImpl) Search(ctx context.Context, query string, skip int, limit *int) (*TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if query == "" {
		return nil, domain.NewValidationError("q", "search query cannot be empty", domain.ErrValidation)
	}

	page, err := s.resolvePage(skip, limit)
	if err != nil {
		return nil, err
	}

	tasks, total, err := s.repo.Search(ctx, query, page)
	if err != nil {
		log.Error("failed to search tasks",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("search", "failed to search tasks", err)
	}

	return &TaskPage{Tasks: tasks, Total: total, Skip: page.Skip, Limit: page.Limit}, nil
}

// Update implements TaskService.Update
// Both the PUT and PATCH transport entry points route here; the merge rule
// is identical for both.
func (s *taskServiceImpl) Update(ctx context.Context, id int64, patch *domain.TaskUpdate) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		log.Warn("task patch rejected by domain validation",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	var updated *domain.Task
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context, r TaskRepository) error {
		task, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		task.Apply(patch)

		if err := r.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})

	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
			return nil, err
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, NewTaskServiceError("update", "failed to update task", err)
	}

	log.Debug("task updated", slog.Int64("task_id", id))
	return updated, nil
}

// UpdateStatus implements TaskService.UpdateStatus
// Equivalent to Update with a singleton patch; exposed separately for
// cheaper, unambiguous intent.
func (s *taskServiceImpl) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	return s.Update(ctx, id, &domain.TaskUpdate{Status: domain.FieldOf(status)})
}

// UpdatePriority implements TaskService.UpdatePriority
func (s *taskServiceImpl) UpdatePriority(ctx context.Context, id int64, priority domain.TaskPriority) (*domain.Task, error) {
	return s.Update(ctx, id, &domain.TaskUpdate{Priority: domain.FieldOf(priority)})
}

// Delete implements TaskService.Delete
// Deliberately not idempotent: the task must exist at the time of the call.
func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for delete", slog.Int64("task_id", id))
			return err
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return NewTaskServiceError("delete", "failed to delete task", err)
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// Statistics implements TaskService.Statistics
func (s *taskServiceImpl) Statistics(ctx context.Context) (*store.TaskStatistics, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		log.Error("failed to compute statistics",
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("statistics", "failed to compute statistics", err)
	}

	return stats, nil
}

// resolvePage applies the configured default and validates the window
// bounds: skip must be non-negative and limit must lie in [1, max].
func (s *taskServiceImpl) resolvePage(skip int, limit *int) (store.Page, error) {
	if skip < 0 {
		return store.Page{}, domain.NewValidationError("skip", "must be greater than or equal to 0", domain.ErrValidation)
	}

	resolved := s.pagination.DefaultPageSize
	if limit != nil {
		resolved = *limit
	}

	if resolved < 1 || resolved > s.pagination.MaxPageSize {
		return store.Page{}, domain.NewValidationError("limit",
			fmt.Sprintf("must be between 1 and %d", s.pagination.MaxPageSize), domain.ErrValidation)
	}

	return store.Page{Skip: skip, Limit: resolved}, nil
}
