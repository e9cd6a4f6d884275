package author

import (
	"errors"
	"strings"
	"time"

	"locallibrary/internal/platform/clock"
)

var (
	// ErrNotFound is returned when an author does not exist.
	ErrNotFound = errors.New("author not found")
	// ErrInvalidLifespan is returned when date_of_death precedes date_of_birth.
	ErrInvalidLifespan = errors.New("date_of_death must not be before date_of_birth")
)

type Author struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// String renders "Last, First", the order used in listings.
func (a Author) String() string {
	return a.LastName + ", " + a.FirstName
}

// Validate checks invariants not expressible as field tags.
func (a Author) Validate() error {
	if a.DateOfBirth != nil && a.DateOfDeath != nil && a.DateOfDeath.Before(*a.DateOfBirth) {
		return ErrInvalidLifespan
	}
	return nil
}

// Input is the create/update request body.
type Input struct {
	FirstName   string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName    string  `json:"last_name" validate:"required,notblank,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	DateOfDeath *string `json:"date_of_death" validate:"omitempty,datetime=2006-01-02"`
}

func (in Input) toAuthor() (Author, error) {
	a := Author{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	var err error
	if a.DateOfBirth, err = parseOptionalDate(in.DateOfBirth); err != nil {
		return Author{}, err
	}
	if a.DateOfDeath, err = parseOptionalDate(in.DateOfDeath); err != nil {
		return Author{}, err
	}
	return a, a.Validate()
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := clock.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
