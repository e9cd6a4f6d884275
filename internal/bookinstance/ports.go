package bookinstance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the contract for book instance storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Instance, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (Instance, error)
	Create(ctx context.Context, inst *Instance) error
	Update(ctx context.Context, inst *Instance) error
	Delete(ctx context.Context, id uuid.UUID) error

	SetDueBack(ctx context.Context, id uuid.UUID, dueBack time.Time) (Instance, error)
	Lend(ctx context.Context, id uuid.UUID, borrowerID string, dueBack time.Time) (Instance, error)
	Return(ctx context.Context, id uuid.UUID) (Instance, error)
}
