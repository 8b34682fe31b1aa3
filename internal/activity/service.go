package activity

import (
	"context"
	"errors"
	"fmt"

	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/authz"
)

// Pagination defaults and bounds for the audit listing.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrForbidden is returned when the caller's role may not read the trail.
var ErrForbidden = errors.New("activity: forbidden")

// Pagination describes one page of the audit trail. Pages is always derived
// from the Total returned in the same response.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// ListResult is the audit read model: entries newest first, joined with the
// actor summary, plus consistent pagination math.
type ListResult struct {
	Logs       []Entry    `json:"logs"`
	Pagination Pagination `json:"pagination"`
}

// Service is the paginated read path over the audit trail. It shares the
// Store with the Recorder but has no write coupling.
type Service struct {
	store Store
}

// NewService constructs the audit query service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("activity store is required")
	}
	return &Service{store: store}, nil
}

// NormalizePage clamps page/limit to sane values: non-positive inputs fall
// back to the defaults rather than producing negative offsets.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ListRequest pages and optionally narrows the audit listing.
type ListRequest struct {
	Page   int
	Limit  int
	UserID string
	Entity string
	Action string
}

// List returns one page of the trail ordered by createdAt descending.
// Requires an authenticated principal whose role passes the activity.read
// policy.
func (s *Service) List(ctx context.Context, actor auth.Principal, req ListRequest) (ListResult, error) {
	if !authz.Allowed(actor.Role, authz.ActivityRead) || actor.IsAnonymous() {
		return ListResult{}, ErrForbidden
	}
	page, limit := NormalizePage(req.Page, req.Limit)

	entries, total, err := s.store.ListEntries(ctx, Query{
		UserID: req.UserID,
		Entity: req.Entity,
		Action: req.Action,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list activity: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return ListResult{
		Logs: entries,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: pageCount(total, limit),
		},
	}, nil
}

func pageCount(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
