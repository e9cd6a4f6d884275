package genre

import "context"

// Repository defines the contract for genre storage.
type Repository interface {
	List(ctx context.Context) ([]Genre, error)
	GetByID(ctx context.Context, id int64) (Genre, error)
	Create(ctx context.Context, g *Genre) error
	Rename(ctx context.Context, id int64, name string) (Genre, error)
	Delete(ctx context.Context, id int64) error
}
