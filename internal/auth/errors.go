package auth

import "errors"

var (
	// ErrInvalidToken indicates the bearer token failed validation.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrIdentityNotFound indicates a well-formed token whose subject no
	// longer exists (or was deactivated).
	ErrIdentityNotFound = errors.New("auth: identity not found")
	// ErrBadCredentials indicates a failed email/password login.
	ErrBadCredentials = errors.New("auth: bad credentials")
)
