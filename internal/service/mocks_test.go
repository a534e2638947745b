package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// fakeTaskRepository is an in-memory TaskRepository with the same ordering
// and not-found contract as the SQL implementation.
type fakeTaskRepository struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task

	// failWith, when set, is returned by every operation to exercise the
	// persistence-failure paths.
	failWith error
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{
		nextID: 1,
		tasks:  make(map[int64]*domain.Task),
	}
}

func (f *fakeTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	now := time.Now().UTC()
	task.ID = f.nextID
	f.nextID++ // IDs are never reused, even after deletion
	task.CreatedAt = now
	task.UpdatedAt = now

	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	task, ok := f.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepository) List(ctx context.Context, filter store.TaskFilter, page store.Page) ([]*domain.Task, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, 0, f.failWith
	}

	matches := f.sorted(func(t *domain.Task) bool {
		if filter.Status != nil && t.Status != *filter.Status {
			return false
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			return false
		}
		return true
	})

	return window(matches, page), int64(len(matches)), nil
}

func (f *fakeTaskRepository) Search(ctx context.Context, query string, page store.Page) ([]*domain.Task, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, 0, f.failWith
	}

	needle := strings.ToLower(query)
	matches := f.sorted(func(t *domain.Task) bool {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			return true
		}
		return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
	})

	return window(matches, page), int64(len(matches)), nil
}

func (f *fakeTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	if _, ok := f.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskRepository) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}

	if _, ok := f.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepository) Statistics(ctx context.Context) (*store.TaskStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	stats := &store.TaskStatistics{
		ByStatus: map[domain.TaskStatus]int64{
			domain.TaskStatusPending:    0,
			domain.TaskStatusInProgress: 0,
			domain.TaskStatusCompleted:  0,
		},
		ByPriority: map[domain.TaskPriority]int64{
			domain.TaskPriorityLow:    0,
			domain.TaskPriorityMedium: 0,
			domain.TaskPriorityHigh:   0,
		},
	}
	for _, t := range f.tasks {
		stats.TotalTasks++
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
	}
	return stats, nil
}

func (f *fakeTaskRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, r TaskRepository) error) error {
	return fn(ctx, f)
}

// sorted returns copies of all matching tasks ordered by CreatedAt
// descending with ID descending as tie-break, matching the SQL store.
func (f *fakeTaskRepository) sorted(match func(*domain.Task) bool) []*domain.Task {
	var matches []*domain.Task
	for _, t := range f.tasks {
		if match(t) {
			copied := *t
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return matches
}

func window(tasks []*domain.Task, page store.Page) []*domain.Task {
	if page.Skip >= len(tasks) {
		return []*domain.Task{}
	}
	end := page.Skip + page.Limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[page.Skip:end]
}
