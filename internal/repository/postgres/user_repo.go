package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"donorhub/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &role, &u.PasswordHash); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, role, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Name, string(u.Role), u.PasswordHash).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, error) {
	var c conditions
	if f.ID != nil {
		c.add("id", *f.ID)
	} else {
		if f.Name != nil {
			c.add("name", *f.Name)
		}
		if f.Role != nil {
			c.add("role", string(*f.Role))
		}
	}
	query := `SELECT id, name, role, password_hash FROM users` + c.where() + ` ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id int64, p domain.UserPatch) (*domain.User, error) {
	var s setClauses
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.Role != nil {
		s.add("role", string(*p.Role))
	}
	if len(s.args) == 0 {
		users, err := r.List(ctx, domain.UserFilter{ID: &id})
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, domain.ErrUserNotFound
		}
		return users[0], nil
	}
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING id, name, role, password_hash`, s.set(), s.next())
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, append(s.args, id)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `DELETE FROM users WHERE id = $1 RETURNING id, name, role, password_hash`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
