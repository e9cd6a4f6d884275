package language

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

func (s *Service) List(ctx context.Context) ([]Language, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Language, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Language, error) {
	l := Language{Name: strings.TrimSpace(in.Name)}
	if err := s.repo.Create(ctx, &l); err != nil {
		return Language{}, err
	}
	return l, nil
}

func (s *Service) Rename(ctx context.Context, id int64, in Input) (Language, error) {
	return s.repo.Rename(ctx, id, strings.TrimSpace(in.Name))
}

// Delete removes the language; copies that referenced it keep a NULL language.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
