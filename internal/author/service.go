package author

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Author, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Get(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Author, error) {
	a, err := in.toAuthor()
	if err != nil {
		return Author{}, err
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Author, error) {
	a, err := in.toAuthor()
	if err != nil {
		return Author{}, err
	}
	a.ID = id
	if err := s.repo.Update(ctx, &a); err != nil {
		return Author{}, err
	}
	return a, nil
}

// Delete removes the author. Their books stay in the catalog without an author.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
