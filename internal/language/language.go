package language

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a language does not exist.
var ErrNotFound = errors.New("language not found")

// ErrAlreadyExists is returned when a language with the same name exists.
var ErrAlreadyExists = errors.New("language already exists")

// Language is the language a physical copy is written in, e.g. "English".
type Language struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (l Language) String() string { return l.Name }

// Input is the create/update request body.
type Input struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}
