package book

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, int, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, b *Book, genreIDs []int64) error
	Update(ctx context.Context, b *Book, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}
