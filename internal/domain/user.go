package domain

import (
	"context"
	"time"
)

// Role is a staff role.
type Role string

const (
	RoleFundraiser  Role = "FUNDRAISER"
	RoleCoordinator Role = "COORDINATOR"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleFundraiser || r == RoleCoordinator
}

// User is a staff account (fundraiser or coordinator).
// swagger:model User
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}

// UserFilter selects users. A set ID short-circuits the other fields.
type UserFilter struct {
	ID   *int64
	Name *string
	Role *Role
}

// UserPatch holds the user fields to change.
type UserPatch struct {
	Name *string
	Role *Role
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, name string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID int64, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create inserts the user. Returns ErrDuplicateUser if the name is taken.
	Create(ctx context.Context, user *User) error
	List(ctx context.Context, filter UserFilter) ([]*User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*User, error)
	Delete(ctx context.Context, id int64) (*User, error)
}

// UserService defines staff account operations.
type UserService interface {
	CreateUser(ctx context.Context, name string, role Role, password string) (*User, error)
	GetUsers(ctx context.Context, filter UserFilter) ([]*User, error)
	GetUserRole(ctx context.Context, filter UserFilter) (Role, error)
	PatchUser(ctx context.Context, id int64, patch UserPatch) (*User, error)
	DeleteUser(ctx context.Context, id int64) (*User, error)
	Login(ctx context.Context, name, password string) (token string, user *User, err error)
}
