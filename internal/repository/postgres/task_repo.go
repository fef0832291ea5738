package postgres

import (
	"context"
	"database/sql"
	"errors"

	"donorhub/internal/domain"
)

type taskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &taskRepository{DB: db}
}

func (r *taskRepository) EnsureList(ctx context.Context, eventID int64) error {
	query := `INSERT INTO task_lists (event_id) VALUES ($1) ON CONFLICT (event_id) DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query, eventID); err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return domain.ErrEventNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) listExists(ctx context.Context, eventID int64) error {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM task_lists WHERE event_id = $1`, eventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrEventNotFound
	}
	return err
}

func (r *taskRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Task, error) {
	if err := r.listExists(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT id, text, status FROM tasks WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t := &domain.Task{}
		var status string
		if err := rows.Scan(&t.ID, &t.Text, &status); err != nil {
			return nil, err
		}
		t.Status = domain.TaskStatus(status)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Add reserves the next id from the event's counter and inserts the task in one transaction,
// so ids are never reused even after deletes.
func (r *taskRepository) Add(ctx context.Context, eventID int64, text string, status domain.TaskStatus) (*domain.Task, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx,
		`UPDATE task_lists SET next_task_id = next_task_id + 1 WHERE event_id = $1 RETURNING next_task_id - 1`,
		eventID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tasks (event_id, id, text, status) VALUES ($1, $2, $3, $4)`,
		eventID, id, text, string(status),
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.Task{ID: id, Text: text, Status: status}, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, eventID, taskID int64, status domain.TaskStatus) (*domain.Task, error) {
	t := &domain.Task{}
	var s string
	err := r.DB.QueryRowContext(ctx,
		`UPDATE tasks SET status = $1 WHERE event_id = $2 AND id = $3 RETURNING id, text, status`,
		string(status), eventID, taskID,
	).Scan(&t.ID, &t.Text, &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	t.Status = domain.TaskStatus(s)
	return t, nil
}

func (r *taskRepository) Delete(ctx context.Context, eventID, taskID int64) error {
	if err := r.listExists(ctx, eventID); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE event_id = $1 AND id = $2`, eventID, taskID)
	return err
}
