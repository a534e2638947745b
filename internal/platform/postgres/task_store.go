// Package postgres implements the store interfaces against a PostgreSQL
// database accessed through database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/platform/logger"
	"github.com/taskflow/taskflow-api/internal/store"
)

// taskColumns is the column list shared by every SELECT against tasks.
const taskColumns = "id, title, description, status, priority, due_date, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It inserts the task and populates its ID and timestamps from the database.
// The task must already satisfy domain validation.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
		INSERT INTO tasks (title, description, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		nullDate(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("title", task.Title))
		return mapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)),
		slog.String("priority", string(task.Priority)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, mapError(err)
	}

	return task, nil
}

// List implements store.TaskStore.List
// Filters are ANDed; the total counts matches before the page window.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter, page store.Page) ([]*domain.Task, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var conditions []string
	var args []any

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	return s.queryPage(ctx, log, where, args, page)
}

// Search implements store.TaskStore.Search
// Matching is case-insensitive and unanchored; a NULL description never
// matches because ILIKE against NULL is not true.
func (s *PostgresTaskStore) Search(ctx context.Context, query string, page store.Page) ([]*domain.Task, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := " WHERE title ILIKE $1 OR description ILIKE $1"
	args := []any{"%" + escapeLike(query) + "%"}

	return s.queryPage(ctx, log, where, args, page)
}

// queryPage runs the shared count-then-select pair behind List and Search.
func (s *PostgresTaskStore) queryPage(ctx context.Context, log *slog.Logger, where string, args []any, page store.Page) ([]*domain.Task, int64, error) {
	var total int64
	countQuery := "SELECT COUNT(*) FROM tasks" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()))
		return nil, 0, mapError(err)
	}

	selectQuery := fmt.Sprintf(
		"SELECT %s FROM tasks%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		taskColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Limit, page.Skip)

	rows, err := s.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()))
		return nil, 0, mapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, 0, mapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, 0, mapError(err)
	}

	// Return empty slice instead of nil if no tasks matched
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	return tasks, total, nil
}

// Update implements store.TaskStore.Update
// It writes every mutable field back to the row.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		nullDate(task.DueDate),
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return mapError(err)
	}

	if err := checkRowsAffected(result); err != nil {
		log.Debug("task not found for update", slog.Int64("task_id", task.ID))
		return err
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// The delete is permanent; the row leaves no trace.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return mapError(err)
	}

	if err := checkRowsAffected(result); err != nil {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// Statistics implements store.TaskStore.Statistics
// It aggregates the full task set in a single scan.
func (s *PostgresTaskStore) Statistics(ctx context.Context) (*store.TaskStatistics, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE priority = 'low'),
			COUNT(*) FILTER (WHERE priority = 'medium'),
			COUNT(*) FILTER (WHERE priority = 'high')
		FROM tasks
	`

	var total, pending, inProgress, completed, low, medium, high int64
	err := s.db.QueryRowContext(ctx, query).Scan(
		&total, &pending, &inProgress, &completed, &low, &medium, &high,
	)
	if err != nil {
		log.Error("failed to compute task statistics",
			slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	return &store.TaskStatistics{
		TotalTasks: total,
		ByStatus: map[domain.TaskStatus]int64{
			domain.TaskStatusPending:    pending,
			domain.TaskStatusInProgress: inProgress,
			domain.TaskStatusCompleted:  completed,
		},
		ByPriority: map[domain.TaskPriority]int64{
			domain.TaskPriorityLow:    low,
			domain.TaskPriorityMedium: medium,
			domain.TaskPriorityHigh:   high,
		},
	}, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row, converting nullable columns to pointers.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString
	var dueDate sql.NullTime
	var status, priority string

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		due := domain.DateOf(dueDate.Time)
		task.DueDate = &due
	}

	return &task, nil
}

// nullString converts an optional string to its driver representation.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullDate converts an optional date to its driver representation.
func nullDate(d *domain.Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time(), Valid: true}
}

// escapeLike escapes the LIKE metacharacters in a user query so they match
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
