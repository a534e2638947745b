package service

import (
	"context"
	"database/sql"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// taskRepositoryAdapter adapts a store.TaskStore to the service-layer
// TaskRepository interface, supplying transactional scoping through
// store.RunInTransaction.
type taskRepositoryAdapter struct {
	taskStore store.TaskStore
	db        *sql.DB
}

// NewTaskRepositoryAdapter creates a TaskRepository backed by the given
// store. db may be nil only when the adapter is already scoped to a
// transaction.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, db *sql.DB) TaskRepository {
	return &taskRepositoryAdapter{
		taskStore: taskStore,
		db:        db,
	}
}

// Ensure taskRepositoryAdapter implements TaskRepository
var _ TaskRepository = (*taskRepositoryAdapter)(nil)

func (a *taskRepositoryAdapter) Create(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Create(ctx, task)
}

func (a *taskRepositoryAdapter) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return a.taskStore.GetByID(ctx, id)
}

func (a *taskRepositoryAdapter) List(ctx context.Context, filter store.TaskFilter, page store.Page) ([]*domain.Task, int64, error) {
	return a.taskStore.List(ctx, filter, page)
}

func (a *taskRepositoryAdapter) Search(ctx context.Context, query string, page store.Page) ([]*domain.Task, int64, error) {
	return a.taskStore.Search(ctx, query, page)
}

func (a *taskRepositoryAdapter) Update(ctx context.Context, task *domain.Task) error {
	return a.taskStore.Update(ctx, task)
}

func (a *taskRepositoryAdapter) Delete(ctx context.Context, id int64) error {
	return a.taskStore.Delete(ctx, id)
}

func (a *taskRepositoryAdapter) Statistics(ctx context.Context) (*store.TaskStatistics, error) {
	return a.taskStore.Statistics(ctx)
}

// WithinTransaction implements TaskRepository.WithinTransaction by running
// fn against a transaction-scoped copy of the adapter.
func (a *taskRepositoryAdapter) WithinTransaction(ctx context.Context, fn func(ctx context.Context, r TaskRepository) error) error {
	return store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		scoped := &taskRepositoryAdapter{
			taskStore: a.taskStore.WithTx(tx),
		}
		return fn(ctx, scoped)
	})
}
