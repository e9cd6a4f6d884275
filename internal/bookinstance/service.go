package bookinstance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"locallibrary/internal/platform/clock"
	"locallibrary/internal/renewal"
)

// Service holds the copy inventory and loan workflow.
type Service struct {
	repo  Repository
	clock clock.Clock
}

// NewService creates a service that reads the current date from c.
func NewService(repo Repository, c clock.Clock) *Service {
	return &Service{repo: repo, clock: c}
}

// Today is the current calendar date used for overdue and renewal checks.
func (s *Service) Today() time.Time {
	return s.clock.Today()
}

func (s *Service) List(ctx context.Context, q Query) ([]Instance, int, error) {
	return s.repo.List(ctx, q)
}

// ListOverdue returns copies whose due date is before today.
func (s *Service) ListOverdue(ctx context.Context, q Query) ([]Instance, int, error) {
	today := s.Today()
	q.OverdueAsOf = &today
	return s.repo.List(ctx, q)
}

// ListOnLoan returns every copy currently lent out, earliest due first.
func (s *Service) ListOnLoan(ctx context.Context, limit, offset int) ([]Instance, int, error) {
	status := StatusOnLoan
	return s.repo.List(ctx, Query{Status: &status, Limit: limit, Offset: offset})
}

// ListBorrowedBy returns the copies a user currently has on loan.
func (s *Service) ListBorrowedBy(ctx context.Context, userID string, limit, offset int) ([]Instance, int, error) {
	status := StatusOnLoan
	return s.repo.List(ctx, Query{Status: &status, BorrowerID: userID, Limit: limit, Offset: offset})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Instance, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Instance, error) {
	status, err := ParseStatus(in.Status)
	if err != nil {
		return Instance{}, err
	}
	if status == StatusOnLoan {
		return Instance{}, ErrLendRequired
	}
	inst, err := New(in.BookID, in.Imprint, in.LanguageID, status)
	if err != nil {
		return Instance{}, err
	}
	if err := s.repo.Create(ctx, &inst); err != nil {
		return Instance{}, err
	}
	return inst, nil
}

// Update edits catalog fields. A copy on loan must be returned first.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Instance, error) {
	status, err := ParseStatus(in.Status)
	if err != nil {
		return Instance{}, err
	}
	if status == StatusOnLoan {
		return Instance{}, ErrLendRequired
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Instance{}, err
	}
	if current.Status == StatusOnLoan {
		return Instance{}, ErrNotAvailable
	}
	current.BookID = in.BookID
	current.Imprint = strings.TrimSpace(in.Imprint)
	current.LanguageID = in.LanguageID
	current.Status = status
	if err := s.repo.Update(ctx, &current); err != nil {
		return Instance{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RenewalProposal returns the copy together with the default renewal date
// offered to the librarian.
func (s *Service) RenewalProposal(ctx context.Context, id uuid.UUID) (Instance, time.Time, error) {
	inst, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Instance{}, time.Time{}, err
	}
	return inst, renewal.DefaultProposal(s.Today()), nil
}

// Renew moves the due date of a lent copy. The date must fall within the
// renewal window starting today.
func (s *Service) Renew(ctx context.Context, id uuid.UUID, form renewal.Form) (Instance, error) {
	dueBack, err := form.Clean(s.Today())
	if err != nil {
		return Instance{}, err
	}
	inst, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Instance{}, err
	}
	if inst.Status != StatusOnLoan {
		return Instance{}, ErrNotOnLoan
	}
	return s.repo.SetDueBack(ctx, id, dueBack)
}

// Lend hands an available copy to a borrower. Without an explicit due date
// the default loan period applies.
func (s *Service) Lend(ctx context.Context, id uuid.UUID, in LendInput) (Instance, error) {
	today := s.Today()
	dueBack := renewal.DefaultProposal(today)
	if in.DueBack != "" {
		var err error
		if dueBack, err = (renewal.Form{RenewalDate: in.DueBack}).Clean(today); err != nil {
			return Instance{}, err
		}
	}
	return s.repo.Lend(ctx, id, in.BorrowerID, dueBack)
}

// MarkReturned puts a lent copy back on the shelf.
func (s *Service) MarkReturned(ctx context.Context, id uuid.UUID) (Instance, error) {
	return s.repo.Return(ctx, id)
}
