package content

import "errors"

var (
	// ErrNotFound indicates the article, comment or category does not exist.
	ErrNotFound = errors.New("content: not found")
	// ErrForbidden indicates the acting role fails the authorization matrix.
	// The caller translates it to a user-visible "forbidden" outcome; no
	// mutation has happened and no audit entry was written.
	ErrForbidden = errors.New("content: forbidden")
	// ErrValidation indicates missing or malformed fields for the requested
	// state. No mutation has happened.
	ErrValidation = errors.New("content: validation failed")
	// ErrConflict indicates a stale-version update or a slug collision.
	ErrConflict = errors.New("content: conflict")
)
