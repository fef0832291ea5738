package services

import (
	"context"
	"log/slog"
	"time"

	"donorhub/internal/domain"
)

type taskService struct {
	taskRepo       domain.TaskRepository
	taskCache      domain.TaskCache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewTaskService serves each request from a fresh TaskLedger; taskCache may be nil.
func NewTaskService(taskRepo domain.TaskRepository, taskCache domain.TaskCache, logger *slog.Logger, timeout time.Duration) domain.TaskService {
	return &taskService{
		taskRepo:       taskRepo,
		taskCache:      taskCache,
		logger:         logger,
		contextTimeout: timeoutOrDefault(timeout),
	}
}

func (s *taskService) ledger() *TaskLedger {
	return NewTaskLedger(s.taskRepo, s.taskCache, s.logger, s.contextTimeout)
}

func (s *taskService) GetTasks(ctx context.Context, eventID int64) (*domain.TaskList, error) {
	l := s.ledger()
	if err := l.Load(ctx, eventID); err != nil {
		return nil, err
	}
	return l.Snapshot(), nil
}

func (s *taskService) AddTask(ctx context.Context, eventID int64, text string, status domain.TaskStatus) (*domain.Task, *domain.TaskList, error) {
	l := s.ledger()
	task, err := l.AddTask(ctx, eventID, text, status)
	if err != nil {
		return nil, nil, err
	}
	return task, l.Snapshot(), nil
}

func (s *taskService) UpdateTaskStatus(ctx context.Context, eventID, taskID int64, status domain.TaskStatus) (*domain.Task, *domain.TaskList, error) {
	l := s.ledger()
	task, err := l.ToggleStatus(ctx, eventID, taskID, status)
	if err != nil {
		return nil, nil, err
	}
	return task, l.Snapshot(), nil
}

func (s *taskService) DeleteTask(ctx context.Context, eventID, taskID int64) (*domain.TaskList, error) {
	l := s.ledger()
	if err := l.DeleteTask(ctx, eventID, taskID); err != nil {
		return nil, err
	}
	return l.Snapshot(), nil
}
