package bookinstance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"locallibrary/internal/platform/clock"
)

var (
	ErrNotFound        = errors.New("book instance not found")
	ErrNotOnLoan       = errors.New("book instance is not on loan")
	ErrNotAvailable    = errors.New("book instance is not available for lending")
	ErrUnknownBook     = errors.New("book does not exist")
	ErrUnknownLanguage = errors.New("language does not exist")
	ErrUnknownBorrower = errors.New("borrower does not exist")
	ErrLendRequired    = errors.New("copies are put on loan by lending them")
)

// Instance is one physical copy of a book that can be lent out.
type Instance struct {
	ID         uuid.UUID  `json:"id"`
	BookID     *int64     `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	Imprint    string     `json:"imprint"`
	DueBack    *time.Time `json:"due_back"`
	LanguageID *int64     `json:"language_id"`
	BorrowerID *string    `json:"borrower_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// New returns a copy with a fresh id. The status must be given explicitly.
func New(bookID *int64, imprint string, languageID *int64, status Status) (Instance, error) {
	if !status.Valid() {
		return Instance{}, ErrInvalidStatus
	}
	return Instance{
		ID:         uuid.New(),
		BookID:     bookID,
		Imprint:    strings.TrimSpace(imprint),
		LanguageID: languageID,
		Status:     status,
	}, nil
}

// IsOverdue reports whether due_back is set and strictly before today.
func (i Instance) IsOverdue(today time.Time) bool {
	return i.DueBack != nil && clock.Date(*i.DueBack).Before(clock.Date(today))
}

func (i Instance) String() string {
	if i.BookTitle == "" {
		return i.ID.String()
	}
	return fmt.Sprintf("%s (%s)", i.ID, i.BookTitle)
}

// View is the JSON form of an instance with derived fields resolved.
type View struct {
	Instance
	StatusLabel string `json:"status_label"`
	IsOverdue   bool   `json:"is_overdue"`
}

func (i Instance) View(today time.Time) View {
	return View{Instance: i, StatusLabel: i.Status.Label(), IsOverdue: i.IsOverdue(today)}
}

// Query defines filters and pagination for listing copies. Results are
// ordered by due_back, earliest first, copies without a due date last.
type Query struct {
	Status      *Status
	BookID      *int64
	BorrowerID  string
	OverdueAsOf *time.Time
	Limit       int
	Offset      int
}

// CreateInput is the POST /instances body. New copies cannot start on loan.
type CreateInput struct {
	BookID     *int64 `json:"book_id" validate:"required,gt=0"`
	Imprint    string `json:"imprint" validate:"required,notblank,max=200"`
	LanguageID *int64 `json:"language_id" validate:"omitempty,gt=0"`
	Status     string `json:"status" validate:"required,oneof=maintenance available reserved"`
}

// UpdateInput is the PUT /instances/{id} body. Loan fields are changed only
// through the lend, renew and return operations.
type UpdateInput struct {
	BookID     *int64 `json:"book_id" validate:"omitempty,gt=0"`
	Imprint    string `json:"imprint" validate:"required,notblank,max=200"`
	LanguageID *int64 `json:"language_id" validate:"omitempty,gt=0"`
	Status     string `json:"status" validate:"required,oneof=maintenance available reserved"`
}

// LendInput is the POST /instances/{id}/lend body.
type LendInput struct {
	BorrowerID string `json:"borrower_id" validate:"required,uuid4"`
	DueBack    string `json:"due_back" validate:"omitempty,datetime=2006-01-02"`
}
