package postgres

import (
	"context"
	"database/sql"
	"errors"

	"donorhub/internal/domain"
)

type eventAttendeeRepository struct {
	DB *sql.DB
}

func NewEventAttendeeRepository(db *sql.DB) domain.EventAttendeeRepository {
	return &eventAttendeeRepository{
		DB: db,
	}
}

// Upsert relies on the (event_id, donor_id) unique constraint. The no-op DO UPDATE makes
// RETURNING yield the existing row; xmax = 0 only for freshly inserted tuples.
func (r *eventAttendeeRepository) Upsert(ctx context.Context, a *domain.EventAttendee) (bool, error) {
	query := `
		INSERT INTO event_attendees (event_id, donor_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, donor_id) DO UPDATE SET event_id = EXCLUDED.event_id
		RETURNING id, amount, (xmax = 0) AS inserted
	`
	var created bool
	err := r.DB.QueryRowContext(ctx, query, a.EventID, a.DonorID, a.Amount).Scan(&a.ID, &a.Amount, &created)
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok {
			switch constraint {
			case fkEventAttendeeDonor:
				return false, domain.ErrDonorNotFound
			case fkEventAttendeeEvent:
				return false, domain.ErrEventNotFound
			}
		}
		return false, err
	}
	return created, nil
}

func (r *eventAttendeeRepository) List(ctx context.Context, f domain.EventAttendeeFilter) ([]*domain.EventAttendee, error) {
	var c conditions
	if f.ID != nil {
		c.add("id", *f.ID)
	} else {
		if f.EventID != nil {
			c.add("event_id", *f.EventID)
		}
		if f.DonorID != nil {
			c.add("donor_id", *f.DonorID)
		}
	}
	query := `SELECT id, event_id, donor_id, amount FROM event_attendees` + c.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.EventAttendee
	for rows.Next() {
		a := &domain.EventAttendee{}
		if err := rows.Scan(&a.ID, &a.EventID, &a.DonorID, &a.Amount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.EventAttendee{}
	}
	return out, nil
}

func (r *eventAttendeeRepository) UpdateAmount(ctx context.Context, id int64, amount float64) (*domain.EventAttendee, error) {
	query := `UPDATE event_attendees SET amount = $1 WHERE id = $2 RETURNING id, event_id, donor_id, amount`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, amount, id))
}

func (r *eventAttendeeRepository) Delete(ctx context.Context, id int64) (*domain.EventAttendee, error) {
	query := `DELETE FROM event_attendees WHERE id = $1 RETURNING id, event_id, donor_id, amount`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventAttendeeRepository) DeleteByEventAndDonor(ctx context.Context, eventID, donorID int64) (*domain.EventAttendee, error) {
	query := `DELETE FROM event_attendees WHERE event_id = $1 AND donor_id = $2 RETURNING id, event_id, donor_id, amount`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, eventID, donorID))
}

func (r *eventAttendeeRepository) DeleteByEventID(ctx context.Context, eventID int64) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *eventAttendeeRepository) scanOne(row *sql.Row) (*domain.EventAttendee, error) {
	a := &domain.EventAttendee{}
	if err := row.Scan(&a.ID, &a.EventID, &a.DonorID, &a.Amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttendeeNotFound
		}
		return nil, err
	}
	return a, nil
}
