package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

func newTestService(t *testing.T, repo TaskRepository) TaskService {
	t.Helper()
	svc, err := NewTaskService(repo, config.PaginationConfig{
		DefaultPageSize: 100,
		MaxPageSize:     1000,
	}, nil)
	require.NoError(t, err)
	return svc
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestNewTaskService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTaskService(nil, config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewTaskService(newFakeTaskRepository(), config.PaginationConfig{DefaultPageSize: 100, MaxPageSize: 10}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("applies defaults for omitted status and priority", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newFakeTaskRepository())

		task, err := svc.Create(ctx, TaskCreate{Title: "Write report"})
		require.NoError(t, err)

		assert.NotZero(t, task.ID)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
		assert.Nil(t, task.Description)
		assert.Nil(t, task.DueDate)
		assert.False(t, task.CreatedAt.IsZero())
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	})

	t.Run("preserves explicit attributes", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newFakeTaskRepository())

		due := domain.NewDate(2026, 9, 15)
		task, err := svc.Create(ctx, TaskCreate{
			Title:       "Ship release",
			Description: strPtr("cut the tag and publish"),
			Status:      domain.TaskStatusInProgress,
			Priority:    domain.TaskPriorityHigh,
			DueDate:     &due,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		assert.Equal(t, domain.TaskPriorityHigh, task.Priority)
		require.NotNil(t, task.Description)
		assert.Equal(t, "cut the tag and publish", *task.Description)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, due, *task.DueDate)
	})

	t.Run("rejects invalid input without persisting", func(t *testing.T) {
		t.Parallel()
		repo := newFakeTaskRepository()
		svc := newTestService(t, repo)

		_, err := svc.Create(ctx, TaskCreate{Title: ""})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Create(ctx, TaskCreate{Title: "x", Status: "archived"})
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

		stats, statErr := svc.Statistics(ctx)
		require.NoError(t, statErr)
		assert.Zero(t, stats.TotalTasks)
	})

	t.Run("wraps persistence failures", func(t *testing.T) {
		t.Parallel()
		repo := newFakeTaskRepository()
		repo.failWith = errors.New("connection reset")
		svc := newTestService(t, repo)

		_, err := svc.Create(ctx, TaskCreate{Title: "doomed"})
		var svcErr *TaskServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create", svcErr.Operation)
	})
}

func TestTaskService_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t, newFakeTaskRepository())

	created, err := svc.Create(ctx, TaskCreate{Title: "Find me"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Find me", got.Title)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := func(t *testing.T) (TaskService, []*domain.Task) {
		t.Helper()
		svc := newTestService(t, newFakeTaskRepository())
		specs := []TaskCreate{
			{Title: "first", Status: domain.TaskStatusPending, Priority: domain.TaskPriorityLow},
			{Title: "second", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityHigh},
			{Title: "third", Status: domain.TaskStatusPending, Priority: domain.TaskPriorityHigh},
			{Title: "fourth", Status: domain.TaskStatusCompleted, Priority: domain.TaskPriorityMedium},
		}
		created := make([]*domain.Task, 0, len(specs))
		for _, in := range specs {
			task, err := svc.Create(ctx, in)
			require.NoError(t, err)
			created = append(created, task)
		}
		return svc, created
	}

	t.Run("orders newest first", func(t *testing.T) {
		t.Parallel()
		svc, created := seed(t)

		page, err := svc.List(ctx, ListParams{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.Total)
		require.Len(t, page.Tasks, 4)
		assert.Equal(t, created[3].ID, page.Tasks[0].ID)
		assert.Equal(t, created[0].ID, page.Tasks[3].ID)
	})

	t.Run("filters combine and total counts matches not the window", func(t *testing.T) {
		t.Parallel()
		svc, _ := seed(t)

		pending := domain.TaskStatusPending
		high := domain.TaskPriorityHigh

		page, err := svc.List(ctx, ListParams{Status: &pending})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)

		page, err = svc.List(ctx, ListParams{Status: &pending, Priority: &high})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
		require.Len(t, page.Tasks, 1)
		assert.Equal(t, "third", page.Tasks[0].Title)

		page, err = svc.List(ctx, ListParams{Status: &pending, Limit: intPtr(1)})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		assert.Len(t, page.Tasks, 1)
	})

	t.Run("windows with skip and limit", func(t *testing.T) {
		t.Parallel()
		svc, created := seed(t)

		page, err := svc.List(ctx, ListParams{Skip: 1, Limit: intPtr(2)})
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.Total)
		require.Len(t, page.Tasks, 2)
		assert.Equal(t, created[2].ID, page.Tasks[0].ID)
		assert.Equal(t, created[1].ID, page.Tasks[1].ID)

		page, err = svc.List(ctx, ListParams{Skip: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.Total)
		assert.Empty(t, page.Tasks)
	})

	t.Run("rejects out-of-range windows", func(t *testing.T) {
		t.Parallel()
		svc, _ := seed(t)

		testCases := []struct {
			name   string
			params ListParams
		}{
			{"negative skip", ListParams{Skip: -1}},
			{"zero limit", ListParams{Limit: intPtr(0)}},
			{"limit above maximum", ListParams{Limit: intPtr(1001)}},
		}
		for _, tc := range testCases {
			_, err := svc.List(ctx, tc.params)
			assert.ErrorIs(t, err, domain.ErrValidation, tc.name)
		}
	})

	t.Run("rejects unknown filter values", func(t *testing.T) {
		t.Parallel()
		svc, _ := seed(t)

		bogus := domain.TaskStatus("archived")
		_, err := svc.List(ctx, ListParams{Status: &bogus})
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)
	})
}

func TestTaskService_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t, newFakeTaskRepository())

	_, err := svc.Create(ctx, TaskCreate{Title: "Buy groceries", Description: strPtr("milk and EGGS")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, TaskCreate{Title: "Plan GROCERY run"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, TaskCreate{Title: "Unrelated"})
	require.NoError(t, err)

	page, err := svc.Search(ctx, "grocer", 0, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.Search(ctx, "eggs", 0, nil)
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Buy groceries", page.Tasks[0].Title)

	page, err = svc.Search(ctx, "nothing matches this", 0, nil)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Tasks)

	_, err = svc.Search(ctx, "", 0, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Search(ctx, "grocer", -1, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("applies only present fields", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newFakeTaskRepository())

		created, err := svc.Create(ctx, TaskCreate{
			Title:       "Original",
			Description: strPtr("keep me"),
			Priority:    domain.TaskPriorityHigh,
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, &domain.TaskUpdate{
			Title: domain.FieldOf("Renamed"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "keep me", *updated.Description)
		assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
	})

	t.Run("explicit null clears nullable fields", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newFakeTaskRepository())

		due := domain.NewDate(2026, 10, 1)
		created, err := svc.Create(ctx, TaskCreate{
			Title:       "Has extras",
			Description: strPtr("to be removed"),
			DueDate:     &due,
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, &domain.TaskUpdate{
			Description: domain.NullField[string](),
			DueDate:     domain.NullField[domain.Date](),
		})
		require.NoError(t, err)

		assert.Nil(t, updated.Description)
		assert.Nil(t, updated.DueDate)
		assert.Equal(t, "Has extras", updated.Title)
	})

	t.Run("rejects invalid patches before touching the store", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newFakeTaskRepository())

		created, err := svc.Create(ctx, TaskCreate{Title: "Stable"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, &domain.TaskUpdate{Title: domain.NullField[string]()})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = svc.Update(ctx, created.ID, &domain.TaskUpdate{Status: domain.FieldOf(domain.TaskStatus("archived"))})
		assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Stable", got.Title)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newFakeTaskRepository())

		_, err := svc.Update(ctx, 42, &domain.TaskUpdate{Title: domain.FieldOf("anything")})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskService_UpdateStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t, newFakeTaskRepository())

	created, err := svc.Create(ctx, TaskCreate{Title: "Track me", Priority: domain.TaskPriorityLow})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, created.ID, domain.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.Equal(t, domain.TaskPriorityLow, updated.Priority)
	assert.Equal(t, "Track me", updated.Title)

	_, err = svc.UpdateStatus(ctx, created.ID, domain.TaskStatus("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

	_, err = svc.UpdateStatus(ctx, 404, domain.TaskStatusCompleted)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_UpdatePriority(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t, newFakeTaskRepository())

	created, err := svc.Create(ctx, TaskCreate{Title: "Reprioritize", Status: domain.TaskStatusInProgress})
	require.NoError(t, err)

	updated, err := svc.UpdatePriority(ctx, created.ID, domain.TaskPriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPriorityHigh, updated.Priority)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)

	_, err = svc.UpdatePriority(ctx, created.ID, domain.TaskPriority("urgent"))
	assert.ErrorIs(t, err, domain.ErrInvalidTaskPriority)
}

func TestTaskService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t, newFakeTaskRepository())

	created, err := svc.Create(ctx, TaskCreate{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	// the second delete of the same ID must fail
	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_Statistics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t, newFakeTaskRepository())

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTasks)
	assert.EqualValues(t, 0, stats.ByStatus[domain.TaskStatusPending])
	assert.EqualValues(t, 0, stats.ByPriority[domain.TaskPriorityHigh])

	inputs := []TaskCreate{
		{Title: "a", Status: domain.TaskStatusPending, Priority: domain.TaskPriorityLow},
		{Title: "b", Status: domain.TaskStatusPending, Priority: domain.TaskPriorityHigh},
		{Title: "c", Status: domain.TaskStatusInProgress, Priority: domain.TaskPriorityHigh},
		{Title: "d", Status: domain.TaskStatusCompleted, Priority: domain.TaskPriorityMedium},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	stats, err = svc.Statistics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalTasks)
	assert.EqualValues(t, 2, stats.ByStatus[domain.TaskStatusPending])
	assert.EqualValues(t, 1, stats.ByStatus[domain.TaskStatusInProgress])
	assert.EqualValues(t, 1, stats.ByStatus[domain.TaskStatusCompleted])
	assert.EqualValues(t, 1, stats.ByPriority[domain.TaskPriorityLow])
	assert.EqualValues(t, 1, stats.ByPriority[domain.TaskPriorityMedium])
	assert.EqualValues(t, 2, stats.ByPriority[domain.TaskPriorityHigh])

	var total int64
	for _, n := range stats.ByStatus {
		total += n
	}
	assert.Equal(t, stats.TotalTasks, total)
}
