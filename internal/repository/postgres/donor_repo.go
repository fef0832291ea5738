package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"donorhub/internal/domain"
)

type donorRepository struct {
	DB *sql.DB
}

func NewDonorRepository(db *sql.DB) domain.DonorRepository {
	return &donorRepository{DB: db}
}

func scanDonor(row rowScanner) (*domain.Donor, error) {
	d := &domain.Donor{}
	var fundraiserNull sql.NullInt64
	if err := row.Scan(&d.ID, &d.Name, &fundraiserNull); err != nil {
		return nil, err
	}
	if fundraiserNull.Valid {
		d.FundraiserID = &fundraiserNull.Int64
	}
	return d, nil
}

func (r *donorRepository) Create(ctx context.Context, d *domain.Donor) error {
	query := `
		INSERT INTO donors (name, fundraiser_id)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, d.Name, d.FundraiserID).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDonor
		}
		if _, ok := foreignKeyViolation(err); ok {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *donorRepository) List(ctx context.Context, f domain.DonorFilter) ([]*domain.Donor, error) {
	var c conditions
	if f.ID != nil {
		c.add("id", *f.ID)
	} else {
		if f.Name != nil {
			c.add("name", *f.Name)
		}
		if f.FundraiserID != nil {
			c.add("fundraiser_id", *f.FundraiserID)
		}
	}
	query := `SELECT id, name, fundraiser_id FROM donors` + c.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	donors := make([]*domain.Donor, 0)
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, err
		}
		donors = append(donors, d)
	}
	return donors, rows.Err()
}

func (r *donorRepository) ExistingNames(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT name FROM donors WHERE name = ANY($1)`, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	existing := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		existing = append(existing, name)
	}
	return existing, rows.Err()
}

func (r *donorRepository) Update(ctx context.Context, id int64, p domain.DonorPatch) (*domain.Donor, error) {
	var s setClauses
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.FundraiserID != nil {
		s.add("fundraiser_id", *p.FundraiserID)
	}
	if len(s.args) == 0 {
		donors, err := r.List(ctx, domain.DonorFilter{ID: &id})
		if err != nil {
			return nil, err
		}
		if len(donors) == 0 {
			return nil, domain.ErrDonorNotFound
		}
		return donors[0], nil
	}
	query := fmt.Sprintf(`UPDATE donors SET %s WHERE id = $%d RETURNING id, name, fundraiser_id`, s.set(), s.next())
	d, err := scanDonor(r.DB.QueryRowContext(ctx, query, append(s.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDonorNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateDonor
		}
		if _, ok := foreignKeyViolation(err); ok {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *donorRepository) Delete(ctx context.Context, id int64) (*domain.Donor, error) {
	d, err := scanDonor(r.DB.QueryRowContext(ctx, `DELETE FROM donors WHERE id = $1 RETURNING id, name, fundraiser_id`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDonorNotFound
		}
		return nil, err
	}
	return d, nil
}
