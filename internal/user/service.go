package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"locallibrary/internal/access"
	"locallibrary/internal/platform/crypto"
)

type Service struct {
	repo      Repository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a member account. Librarians are promoted with SetRole.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	hashed, err := crypto.HashPassword(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Username: strings.TrimSpace(in.Username),
		Password: hashed,
		Role:     access.RoleMember,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

// Login checks the credentials and returns a signed access token together
// with its lifetime in seconds.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, int, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", 0, ErrUnauthorized
		}
		return "", 0, err
	}
	if !crypto.VerifyPassword(u.Password, in.Password) {
		return "", 0, ErrUnauthorized
	}

	token, err := crypto.GenerateToken(s.jwtSecret, u.ID, string(u.Role), s.tokenTTL)
	if err != nil {
		return "", 0, fmt.Errorf("generate token: %w", err)
	}
	return token, int(s.tokenTTL.Seconds()), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SetRole(ctx context.Context, id string, role access.Role) (User, error) {
	if !role.Valid() {
		return User{}, ErrInvalidRole
	}
	return s.repo.SetRole(ctx, id, role)
}
