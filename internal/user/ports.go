package user

import (
	"context"

	"locallibrary/internal/access"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	SetRole(ctx context.Context, id string, role access.Role) (User, error)
}
