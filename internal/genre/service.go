package genre

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Genre, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Genre, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Genre, error) {
	g := Genre{Name: strings.TrimSpace(in.Name)}
	if err := s.repo.Create(ctx, &g); err != nil {
		return Genre{}, err
	}
	return g, nil
}

func (s *Service) Rename(ctx context.Context, id int64, in Input) (Genre, error) {
	return s.repo.Rename(ctx, id, strings.TrimSpace(in.Name))
}

// Delete removes the genre; books keep their other genres.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
