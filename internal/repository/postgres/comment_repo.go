package postgres

import (
	"context"
	"database/sql"
	"errors"

	"donorhub/internal/domain"
)

const commentColumns = `id, type, content, created_at, donor_id, fundraiser_id, event_id`

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{DB: db}
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	var reason string
	var fundraiserNull, eventNull sql.NullInt64
	if err := row.Scan(&c.ID, &reason, &c.Content, &c.CreatedAt, &c.DonorID, &fundraiserNull, &eventNull); err != nil {
		return nil, err
	}
	c.Type = domain.ReasonType(reason)
	if fundraiserNull.Valid {
		c.FundraiserID = &fundraiserNull.Int64
	}
	if eventNull.Valid {
		c.EventID = &eventNull.Int64
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (type, content, donor_id, fundraiser_id, event_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, string(c.Type), c.Content, c.DonorID, c.FundraiserID, c.EventID).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok {
			switch constraint {
			case fkCommentDonor:
				return domain.ErrDonorNotFound
			case fkCommentEvent:
				return domain.ErrEventNotFound
			case fkCommentFundraiser:
				return domain.ErrUserNotFound
			}
		}
		return err
	}
	return nil
}

func (r *commentRepository) List(ctx context.Context, f domain.CommentFilter) ([]*domain.Comment, error) {
	var c conditions
	if f.ID != nil {
		c.add("id", *f.ID)
	} else {
		if f.FundraiserID != nil {
			c.add("fundraiser_id", *f.FundraiserID)
		}
		if f.DonorID != nil {
			c.add("donor_id", *f.DonorID)
		}
		if f.EventID != nil {
			c.add("event_id", *f.EventID)
		}
		if f.Type != nil {
			c.add("type", string(*f.Type))
		}
	}
	query := `SELECT ` + commentColumns + ` FROM comments` + c.where() + ` ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id int64) (*domain.Comment, error) {
	cm, err := scanComment(r.DB.QueryRowContext(ctx, `DELETE FROM comments WHERE id = $1 RETURNING `+commentColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return cm, nil
}
