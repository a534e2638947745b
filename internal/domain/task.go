package domain

import (
	"time"
)

// TaskStatus represents the completion state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 200

// Valid reports whether the status is one of the enumerated values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// Valid reports whether the priority is one of the enumerated values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Task represents a unit of work tracked by the service.
// The ID and timestamps are assigned by the persistence layer on creation;
// there is no enforced status transition graph, any status may move to any
// other directly.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *Date        `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates an unpersisted Task with the given attributes, applying
// the documented defaults for zero-valued status and priority. The ID and
// timestamps remain unset until the store persists the task.
// Returns an error if validation fails.
func NewTask(title string, description *string, status TaskStatus, priority TaskPriority, dueDate *Date) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	task := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if len([]rune(t.Title)) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}

	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}

	if !t.Priority.Valid() {
		return ErrInvalidTaskPriority
	}

	return nil
}

// TaskUpdate is a patch applied to an existing task. Each field records
// whether it was present in the input; absent fields leave the task
// untouched while present fields are applied, including explicit nulls on
// the nullable fields (description, due date).
type TaskUpdate struct {
	Title       Field[string]       `json:"title"`
	Description Field[string]       `json:"description"`
	Status      Field[TaskStatus]   `json:"status"`
	Priority    Field[TaskPriority] `json:"priority"`
	DueDate     Field[Date]         `json:"due_date"`
}

// Validate checks that every present field carries an applicable value.
// The non-nullable fields (title, status, priority) reject explicit null.
func (u *TaskUpdate) Validate() error {
	if u.Title.Set {
		if !u.Title.Valid {
			return NewValidationError("title", "cannot be null", ErrValidation)
		}
		if u.Title.Value == "" {
			return ErrTaskTitleEmpty
		}
		if len([]rune(u.Title.Value)) > MaxTitleLength {
			return ErrTaskTitleTooLong
		}
	}

	if u.Status.Set {
		if !u.Status.Valid {
			return NewValidationError("status", "cannot be null", ErrValidation)
		}
		if !u.Status.Value.Valid() {
			return ErrInvalidTaskStatus
		}
	}

	if u.Priority.Set {
		if !u.Priority.Valid {
			return NewValidationError("priority", "cannot be null", ErrValidation)
		}
		if !u.Priority.Value.Valid() {
			return ErrInvalidTaskPriority
		}
	}

	return nil
}

// Apply merges the patch into the task and refreshes the UpdatedAt
// timestamp. The patch must have been validated first.
func (t *Task) Apply(u *TaskUpdate) {
	if u.Title.Set {
		t.Title = u.Title.Value
	}

	if u.Description.Set {
		if u.Description.Valid {
			desc := u.Description.Value
			t.Description = &desc
		} else {
			t.Description = nil
		}
	}

	if u.Status.Set {
		t.Status = u.Status.Value
	}

	if u.Priority.Set {
		t.Priority = u.Priority.Value
	}

	if u.DueDate.Set {
		if u.DueDate.Valid {
			due := u.DueDate.Value
			t.DueDate = &due
		} else {
			t.DueDate = nil
		}
	}

	t.UpdatedAt = time.Now().UTC()
}
