package auth

import (
	"context"
	"errors"
	"fmt"
)

// Resolver turns a bearer token into a Principal. Resolution performs no
// mutating side effect and is safe to run on every request, including public
// reads.
type Resolver struct {
	users UserStore
}

// NewResolver constructs a Resolver backed by the given user store.
func NewResolver(users UserStore) (*Resolver, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	return &Resolver{users: users}, nil
}

// Resolve validates the token and loads the acting identity.
// A well-formed token whose subject is missing or deactivated resolves to
// ErrIdentityNotFound.
func (r *Resolver) Resolve(ctx context.Context, token string) (Principal, error) {
	claims, err := ParseAndValidate(token)
	if err != nil {
		return Principal{}, err
	}
	user, err := r.users.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return Principal{}, ErrIdentityNotFound
		}
		return Principal{}, fmt.Errorf("resolve principal: %w", err)
	}
	if !user.Active {
		return Principal{}, ErrIdentityNotFound
	}
	return Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		// The stored role wins over the token claim so role revocations
		// take effect before the token expires.
		Role: NormalizeRole(user.Role),
	}, nil
}
