package domain

import "context"

// TaskStatus is the progress state of a checklist item.
type TaskStatus string

const (
	TaskUndone     TaskStatus = "undone"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	return s == TaskUndone || s == TaskInProgress || s == TaskDone
}

// Task is a checklist item owned by one event. ID is unique only within that event.
// swagger:model Task
type Task struct {
	ID     int64      `json:"id"`
	Text   string     `json:"text"`
	Status TaskStatus `json:"status"`
}

// TaskRepository is the durable per-event task store. Every write touches one event only.
type TaskRepository interface {
	// EnsureList creates the empty task list for the event if it does not exist yet.
	// Returns ErrEventNotFound if the event itself does not exist.
	EnsureList(ctx context.Context, eventID int64) error
	// ListByEventID returns the event's tasks ordered by id; ErrEventNotFound if the list does not exist.
	ListByEventID(ctx context.Context, eventID int64) ([]*Task, error)
	// Add appends a task, assigning the next id from the event's monotonic counter.
	Add(ctx context.Context, eventID int64, text string, status TaskStatus) (*Task, error)
	// UpdateStatus returns ErrTaskNotFound if the task does not exist under the event.
	UpdateStatus(ctx context.Context, eventID, taskID int64, status TaskStatus) (*Task, error)
	// Delete returns ErrEventNotFound if the list does not exist; a missing task is not an error.
	Delete(ctx context.Context, eventID, taskID int64) error
}

// TaskCache mirrors an event's task list. The store stays canonical; the mirror serves
// reads only while the store is unavailable.
type TaskCache interface {
	Get(ctx context.Context, eventID int64) (tasks []*Task, ok bool, err error)
	Set(ctx context.Context, eventID int64, tasks []*Task) error
	// Delete drops the event's list; a missing key is not an error.
	Delete(ctx context.Context, eventID int64) error
}

// TaskList is an event's checklist together with its completion percentage.
type TaskList struct {
	EventID              int64   `json:"eventId"`
	Tasks                []*Task `json:"tasks"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// TaskService exposes the task ledger to the delivery layer.
type TaskService interface {
	GetTasks(ctx context.Context, eventID int64) (*TaskList, error)
	AddTask(ctx context.Context, eventID int64, text string, status TaskStatus) (*Task, *TaskList, error)
	UpdateTaskStatus(ctx context.Context, eventID, taskID int64, status TaskStatus) (*Task, *TaskList, error)
	DeleteTask(ctx context.Context, eventID, taskID int64) (*TaskList, error)
}
