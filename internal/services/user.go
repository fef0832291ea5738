package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"donorhub/internal/domain"
)

const minPasswordLength = 8

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// NewUserService creates a UserService with the given repository and auth ports.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeoutOrDefault(timeout),
	}
}

func (s *userService) CreateUser(ctx context.Context, name string, role domain.Role, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	var problems []string
	if name == "" {
		problems = append(problems, "name is required")
	}
	if !role.Valid() {
		problems = append(problems, "role must be FUNDRAISER or COORDINATOR")
	}
	if len(password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(problems) > 0 {
		return nil, invalidInput(problems...)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user := &domain.User{Name: name, Role: role, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeErr("create user", err)
	}
	return user, nil
}

func (s *userService) GetUsers(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, invalidInput("role must be FUNDRAISER or COORDINATOR")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

func (s *userService) GetUserRole(ctx context.Context, filter domain.UserFilter) (domain.Role, error) {
	if filter.ID == nil && filter.Name == nil {
		return "", invalidInput("id or name is required")
	}
	users, err := s.GetUsers(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", domain.ErrUserNotFound
	}
	return users[0].Role, nil
}

func (s *userService) PatchUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalidInput("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, invalidInput("role must be FUNDRAISER or COORDINATOR")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update user", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, storeErr("delete user", err)
	}
	return user, nil
}

// Login never says whether the name or the password was wrong.
func (s *userService) Login(ctx context.Context, name, password string) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	users, err := s.GetUsers(ctx, domain.UserFilter{Name: &name})
	if err != nil {
		return "", nil, err
	}
	if len(users) == 0 || users[0].PasswordHash == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	user := users[0]
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Name, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

