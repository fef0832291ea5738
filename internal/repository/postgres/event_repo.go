package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"donorhub/internal/domain"
)

const eventColumns = `id, title, topic, date, city, address, description, goal, completed`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var city string
	var addressNull, descNull sql.NullString
	if err := row.Scan(&e.ID, &e.Title, &e.Topic, &e.Date, &city, &addressNull, &descNull, &e.Goal, &e.Completed); err != nil {
		return nil, err
	}
	e.City = domain.City(city)
	if addressNull.Valid {
		e.Address = &addressNull.String
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, topic, date, city, address, description, goal, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Topic, e.Date, string(e.City), e.Address, e.Description, e.Goal, e.Completed,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter) ([]*domain.Event, error) {
	var c conditions
	if f.ID != nil {
		c.add("id", *f.ID)
	} else {
		if f.Title != nil {
			c.add("title", *f.Title)
		}
		if f.Topic != nil {
			c.add("topic", *f.Topic)
		}
		if f.Date != nil {
			c.add("date", *f.Date)
		}
		if f.City != nil {
			c.add("city", string(*f.City))
		}
	}
	query := `SELECT ` + eventColumns + ` FROM events` + c.where() + ` ORDER BY date, id`
	rows, err := r.DB.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id int64, p domain.EventPatch) (*domain.Event, error) {
	var s setClauses
	if p.Title != nil {
		s.add("title", *p.Title)
	}
	if p.Topic != nil {
		s.add("topic", *p.Topic)
	}
	if p.Date != nil {
		s.add("date", *p.Date)
	}
	if p.City != nil {
		s.add("city", string(*p.City))
	}
	if p.Address != nil {
		s.add("address", *p.Address)
	}
	if p.Description != nil {
		s.add("description", *p.Description)
	}
	if p.Goal != nil {
		s.add("goal", *p.Goal)
	}
	if p.Completed != nil {
		s.add("completed", *p.Completed)
	}
	if len(s.args) == 0 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING `+eventColumns, s.set(), s.next())
	args := append(s.args, id)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) (*domain.Event, error) {
	query := `DELETE FROM events WHERE id = $1 RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}
