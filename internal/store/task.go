package store

import (
	"context"
	"database/sql"

	"github.com/taskflow/taskflow-api/internal/domain"
)

// TaskFilter narrows a listing to tasks matching all of its non-nil fields.
// A nil field places no constraint on that attribute.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
}

// Page selects a contiguous window of an ordered result set.
type Page struct {
	Skip  int
	Limit int
}

// TaskStatistics holds aggregate counts over the full task set.
type TaskStatistics struct {
	TotalTasks int64
	ByStatus   map[domain.TaskStatus]int64
	ByPriority map[domain.TaskPriority]int64
}

// TaskStore defines the interface for task data persistence.
// Implementations own ID assignment and creation timestamps; everything
// above this interface treats tasks as plain records.
type TaskStore interface {
	// Create persists a new task, assigning its ID, CreatedAt and
	// UpdatedAt. The passed task is mutated in place with the assigned
	// values. The task must already satisfy domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns tasks matching the filter, ordered most recently
	// created first, sliced to the page window, together with the total
	// number of matches before pagination.
	List(ctx context.Context, filter TaskFilter, page Page) ([]*domain.Task, int64, error)

	// Search returns tasks whose title or description contains the query
	// as a case-insensitive substring, with the same ordering, window and
	// total semantics as List. A NULL description never matches.
	Search(ctx context.Context, query string, page Page) ([]*domain.Task, int64, error)

	// Update writes every mutable field of the task back to the store.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// Statistics computes aggregate counts over all tasks, grouped by
	// status and by priority.
	Statistics(ctx context.Context) (*TaskStatistics, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) TaskStore
}
