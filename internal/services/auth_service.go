package services

import (
	"context"
	"errors"
	"fmt"

	"rjcreations/internal/domain"
	"rjcreations/internal/validate"
)

// ErrBadCreds covers both unknown email and wrong password.
var ErrBadCreds = errors.New("invalid credentials")

type AuthService struct {
	Users  UserRepository
	Hasher PasswordHasher
}

func NewAuthService(users UserRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{Users: users, Hasher: hasher}
}

// Register creates a non-admin user. A taken email surfaces as domain.ErrConflict from the
// store's unique constraint; there is no pre-check.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return domain.User{}, &domain.ValidationError{Field: "email", Msg: "Enter a valid email address."}
	}
	if !validate.Password(password) {
		return domain.User{}, &domain.ValidationError{Field: "password", Msg: validate.PasswordRule}
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.Create(ctx, domain.User{Email: email, Hash: hash})
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrBadCreds
	}
	if err != nil {
		return nil, err
	}
	if !s.Hasher.Check(password, u.Hash) {
		return nil, ErrBadCreds
	}
	return u, nil
}

// CurrentUser resolves a session principal. Zero means anonymous.
func (s *AuthService) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	if id == 0 {
		return nil, domain.ErrUnauthorized
	}
	return s.Users.ByID(ctx, id)
}
