package user

import (
	"errors"
	"time"

	"locallibrary/internal/access"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("email or username already registered")
	ErrUnauthorized  = errors.New("invalid email or password")
	ErrInvalidRole   = errors.New("invalid role")
)

// User is a library patron or librarian. Patrons borrow book instances.
type User struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Password  string      `json:"-"`
	Role      access.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IsLibrarian reports whether the user administers the catalog.
func (u User) IsLibrarian() bool {
	return u.Role == access.RoleLibrarian
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RoleInput struct {
	Role string `json:"role" validate:"required,oneof=MEMBER LIBRARIAN"`
}
