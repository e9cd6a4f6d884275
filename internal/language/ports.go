package language

import "context"

// Repository defines the contract for language storage.
type Repository interface {
	List(ctx context.Context) ([]Language, error)
	GetByID(ctx context.Context, id int64) (Language, error)
	Create(ctx context.Context, g *Language) error
	Rename(ctx context.Context, id int64, name string) (Language, error)
	Delete(ctx context.Context, id int64) error
}
