package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"donorhub/internal/domain"
)

// maxPasswordBytes is bcrypt's input limit; longer passwords are rejected rather than truncated.
const maxPasswordBytes = 72

type passwordHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher backed by bcrypt. Costs outside bcrypt's range use bcrypt.DefaultCost.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &passwordHasher{cost: cost}
}

func (p *passwordHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hashed), nil
}

// Compare returns domain.ErrInvalidCredentials when password does not match hash.
func (p *passwordHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return domain.ErrInvalidCredentials
	default:
		return fmt.Errorf("bcrypt: %w", err)
	}
}
