package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"donorhub/internal/domain"
)

// TaskLedger holds one event's task checklist. Store writes are scoped to that event, and
// every confirmed write is mirrored into the cache. Cache failures are logged, never returned.
type TaskLedger struct {
	repo    domain.TaskRepository
	cache   domain.TaskCache
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	eventID int64
	loaded  bool
	tasks   []*domain.Task
}

// NewTaskLedger builds a ledger; cache may be nil.
func NewTaskLedger(repo domain.TaskRepository, cache domain.TaskCache, logger *slog.Logger, timeout time.Duration) *TaskLedger {
	return &TaskLedger{
		repo:    repo,
		cache:   cache,
		logger:  logger,
		timeout: timeoutOrDefault(timeout),
		tasks:   []*domain.Task{},
	}
}

// Load reads the event's tasks from the store, which is canonical. The cache answers only
// while the store is failing; a missing event also drops its cached list.
func (l *TaskLedger) Load(ctx context.Context, eventID int64) error {
	err := l.refresh(ctx, eventID)
	if err == nil || l.cache == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}

	var tasks []*domain.Task
	var hit bool
	cacheErr := l.call(ctx, func(ctx context.Context) (err error) {
		tasks, hit, err = l.cache.Get(ctx, eventID)
		return err
	})
	if cacheErr != nil {
		l.logger.WarnContext(ctx, "task cache read failed", "event_id", eventID, "err", cacheErr)
		return err
	}
	if !hit {
		return err
	}
	l.logger.WarnContext(ctx, "task store unavailable, serving cached tasks", "event_id", eventID, "err", err)
	l.set(eventID, tasks)
	return nil
}

// EnsureEvent creates the event's empty task list if missing.
func (l *TaskLedger) EnsureEvent(ctx context.Context, eventID int64) error {
	err := l.call(ctx, func(ctx context.Context) error { return l.repo.EnsureList(ctx, eventID) })
	if err != nil {
		return storeErr("ensure task list", err)
	}
	return nil
}

// AddTask appends a task; an empty status means undone.
func (l *TaskLedger) AddTask(ctx context.Context, eventID int64, text string, status domain.TaskStatus) (*domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidInput("text is required")
	}
	if status == "" {
		status = domain.TaskUndone
	}
	if !status.Valid() {
		return nil, invalidInput("status must be one of undone, in-progress, done")
	}
	if err := l.EnsureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	var task *domain.Task
	err := l.call(ctx, func(ctx context.Context) (err error) {
		task, err = l.repo.Add(ctx, eventID, text, status)
		return err
	})
	if err != nil {
		return nil, storeErr("add task", err)
	}

	if err := l.apply(ctx, eventID, func(tasks []*domain.Task) []*domain.Task {
		return append(tasks, task)
	}); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleStatus sets a task's status. ErrTaskNotFound if the event has no such task.
func (l *TaskLedger) ToggleStatus(ctx context.Context, eventID, taskID int64, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, invalidInput("status must be one of undone, in-progress, done")
	}
	if err := l.EnsureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	var task *domain.Task
	err := l.call(ctx, func(ctx context.Context) (err error) {
		task, err = l.repo.UpdateStatus(ctx, eventID, taskID, status)
		return err
	})
	if err != nil {
		return nil, storeErr("update task", err)
	}

	if err := l.apply(ctx, eventID, func(tasks []*domain.Task) []*domain.Task {
		for i, t := range tasks {
			if t.ID == taskID {
				tasks[i] = task
			}
		}
		return tasks
	}); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task. A missing task is not an error; a missing task list is ErrEventNotFound.
func (l *TaskLedger) DeleteTask(ctx context.Context, eventID, taskID int64) error {
	err := l.call(ctx, func(ctx context.Context) error { return l.repo.Delete(ctx, eventID, taskID) })
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.forget(ctx, eventID)
		}
		return storeErr("delete task", err)
	}
	return l.apply(ctx, eventID, func(tasks []*domain.Task) []*domain.Task {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != taskID {
				kept = append(kept, t)
			}
		}
		return kept
	})
}

func (l *TaskLedger) Tasks() []*domain.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*domain.Task{}, l.tasks...)
}

// CompletionPercentage is the share of done tasks in percent, 0 without tasks.
func (l *TaskLedger) CompletionPercentage() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return completionPercentage(l.tasks)
}

// Snapshot returns the loaded list with its completion percentage.
func (l *TaskLedger) Snapshot() *domain.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &domain.TaskList{
		EventID:              l.eventID,
		Tasks:                append([]*domain.Task{}, l.tasks...),
		CompletionPercentage: completionPercentage(l.tasks),
	}
}

func completionPercentage(tasks []*domain.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == domain.TaskDone {
			done++
		}
	}
	return float64(done) * 100 / float64(len(tasks))
}

// apply updates the loaded list after a confirmed write. A ledger holding another event
// (or nothing) reloads from the store instead.
func (l *TaskLedger) apply(ctx context.Context, eventID int64, fn func([]*domain.Task) []*domain.Task) error {
	l.mu.Lock()
	if !l.loaded || l.eventID != eventID {
		l.mu.Unlock()
		return l.refresh(ctx, eventID)
	}
	l.tasks = fn(l.tasks)
	tasks := append([]*domain.Task{}, l.tasks...)
	l.mu.Unlock()

	l.mirror(ctx, eventID, tasks)
	return nil
}

func (l *TaskLedger) refresh(ctx context.Context, eventID int64) error {
	if err := l.EnsureEvent(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.forget(ctx, eventID)
		}
		return err
	}
	var tasks []*domain.Task
	err := l.call(ctx, func(ctx context.Context) (err error) {
		tasks, err = l.repo.ListByEventID(ctx, eventID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.forget(ctx, eventID)
		}
		return storeErr("list tasks", err)
	}
	l.set(eventID, tasks)
	l.mirror(ctx, eventID, tasks)
	return nil
}

func (l *TaskLedger) set(eventID int64, tasks []*domain.Task) {
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eventID = eventID
	l.loaded = true
	l.tasks = tasks
}

func (l *TaskLedger) mirror(ctx context.Context, eventID int64, tasks []*domain.Task) {
	if l.cache == nil {
		return
	}
	err := l.call(context.WithoutCancel(ctx), func(ctx context.Context) error {
		return l.cache.Set(ctx, eventID, tasks)
	})
	if err != nil {
		l.logger.WarnContext(ctx, "task cache write failed", "event_id", eventID, "err", err)
	}
}

// forget drops the cached list of an event the store no longer has.
func (l *TaskLedger) forget(ctx context.Context, eventID int64) {
	if l.cache == nil {
		return
	}
	err := l.call(context.WithoutCancel(ctx), func(ctx context.Context) error {
		return l.cache.Delete(ctx, eventID)
	})
	if err != nil {
		l.logger.WarnContext(ctx, "task cache delete failed", "event_id", eventID, "err", err)
	}
}

func (l *TaskLedger) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return fn(ctx)
}
