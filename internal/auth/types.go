package auth

import (
	"context"
	"time"
)

// User is a stored account. Accounts are never deleted, only deactivated.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the resolved acting identity attached to a request.
// The zero value represents an anonymous caller.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAnonymous reports whether no authenticated identity is present.
func (p Principal) IsAnonymous() bool {
	return p.ID == ""
}

// UserStore is the persistence surface the resolver and login flow need.
type UserStore interface {
	FindUserByID(ctx context.Context, id string) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
}
