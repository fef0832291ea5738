package postgres

import (
	"context"
	"database/sql"
	"errors"

	"donorhub/internal/domain"
)

type eventFundraiserRepository struct {
	DB *sql.DB
}

func NewEventFundraiserRepository(db *sql.DB) domain.EventFundraiserRepository {
	return &eventFundraiserRepository{
		DB: db,
	}
}

func (r *eventFundraiserRepository) Create(ctx context.Context, link *domain.EventFundraiser) error {
	query := `
		INSERT INTO event_fundraisers (event_id, fundraiser_id)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, link.EventID, link.FundraiserID).Scan(&link.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLink
		}
		if constraint, ok := foreignKeyViolation(err); ok {
			switch constraint {
			case fkEventFundraiserFundraiser:
				return domain.ErrUserNotFound
			case fkEventFundraiserEvent:
				return domain.ErrEventNotFound
			}
		}
		return err
	}
	return nil
}

func (r *eventFundraiserRepository) List(ctx context.Context, f domain.EventFundraiserFilter) ([]*domain.EventFundraiser, error) {
	var c conditions
	if f.ID != nil {
		c.add("id", *f.ID)
	} else {
		if f.EventID != nil {
			c.add("event_id", *f.EventID)
		}
		if f.FundraiserID != nil {
			c.add("fundraiser_id", *f.FundraiserID)
		}
	}
	query := `SELECT id, event_id, fundraiser_id FROM event_fundraisers` + c.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	links := make([]*domain.EventFundraiser, 0)
	for rows.Next() {
		l := &domain.EventFundraiser{}
		if err := rows.Scan(&l.ID, &l.EventID, &l.FundraiserID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *eventFundraiserRepository) Delete(ctx context.Context, id int64) (*domain.EventFundraiser, error) {
	query := `DELETE FROM event_fundraisers WHERE id = $1 RETURNING id, event_id, fundraiser_id`
	l := &domain.EventFundraiser{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.EventID, &l.FundraiserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, err
	}
	return l, nil
}
