package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of books matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

// Get returns a book with its genres in display order.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Book, error) {
	b := in.toBook()
	if err := s.repo.Create(ctx, &b, uniqueIDs(in.GenreIDs)); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update replaces the book's fields and its genre assignment.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Book, error) {
	b := in.toBook()
	b.ID = id
	if err := s.repo.Update(ctx, &b, uniqueIDs(in.GenreIDs)); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete removes the book. Its copies stay in inventory with no book set.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
