package ingest

import (
	"context"

	"locallibrary/internal/book"
	"locallibrary/internal/platform/openlibrary"
)

type OpenLibraryClient interface {
	GetBooksByISBN(ctx context.Context, isbns []string) (map[string]openlibrary.BookDetails, error)
}

// Repository resolves the author and genre rows an imported book links to,
// creating them when missing.
type Repository interface {
	EnsureAuthor(ctx context.Context, firstName, lastName string) (int64, error)
	EnsureGenres(ctx context.Context, names []string) ([]int64, error)
}

// BookCreator is satisfied by *book.Service.
type BookCreator interface {
	Create(ctx context.Context, in book.Input) (book.Book, error)
}
