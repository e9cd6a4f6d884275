package genre

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a genre does not exist.
var ErrNotFound = errors.New("genre not found")

// ErrAlreadyExists is returned when a genre with the same name exists.
var ErrAlreadyExists = errors.New("genre already exists")

// Genre is a book category such as "Science Fiction".
type Genre struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (g Genre) String() string { return g.Name }

// Input is the create/update request body.
type Input struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}
