// Package donations handles donation intake. Amounts are held in minor units
// (cents); no floats anywhere.
package donations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/authz"
	"newsdesk.org/internal/ids"
)

// DonationStatus values. Status is set at creation time: there is no external
// payment callback in the current design, so a recorded donation is reported
// as SUCCESS unconditionally. Callers must treat this as a trust boundary,
// not as verified payment.
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

var (
	ErrNotFound      = errors.New("donations: not found")
	ErrForbidden     = errors.New("donations: forbidden")
	ErrInvalidAmount = errors.New("donations: invalid amount")
	ErrValidation    = errors.New("donations: validation failed")
)

// Donation is one submitted donation record.
type Donation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	AmountCents int64     `json:"-"`
	Message     string    `json:"message,omitempty"`
	Method      string    `json:"method,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Amount renders the minor-unit amount as a decimal string ("25.50").
func (d Donation) Amount() string {
	return FormatAmount(d.AmountCents)
}

// MarshalJSON exposes the amount as its decimal string form. The minor-unit
// integer never leaves the service.
func (d Donation) MarshalJSON() ([]byte, error) {
	type alias Donation
	return json.Marshal(struct {
		alias
		Amount string `json:"amount"`
	}{alias(d), d.Amount()})
}

// Store is the persistence surface for donations.
type Store interface {
	InsertDonation(ctx context.Context, d Donation) (Donation, error)
	ListDonations(ctx context.Context, offset, limit int) ([]Donation, int64, error)
}

// CreateInput is the public submission payload. Amount is the raw decimal
// string as received.
type CreateInput struct {
	Name    string
	Email   string
	Amount  string
	Message string
	Method  string
}

// Service owns donation intake and the admin-only listing.
type Service struct {
	store Store
	audit AuditRecorder
	now   func() time.Time
	newID func() string
}

// NewService constructs the donation service.
func NewService(store Store, audit AuditRecorder, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("donation store is required")
	}
	if audit == nil {
		return nil, errors.New("audit recorder is required")
	}
	s := &Service{
		store: store,
		audit: audit,
		now:   time.Now,
		newID: ids.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AuditRecorder receives one entry per recorded donation.
type AuditRecorder interface {
	Record(ctx context.Context, e activity.Entry) error
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source (test use).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// Create records a donation. Open to anonymous callers.
func (s *Service) Create(ctx context.Context, actor auth.Principal, in CreateInput) (Donation, error) {
	if !authz.Allowed(actor.Role, authz.DonationCreate) {
		return Donation{}, ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Donation{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	cents, err := ParseAmount(in.Amount)
	if err != nil {
		return Donation{}, err
	}
	d := Donation{
		ID:          s.newID(),
		Name:        name,
		Email:       strings.TrimSpace(strings.ToLower(in.Email)),
		AmountCents: cents,
		Message:     strings.TrimSpace(in.Message),
		Method:      strings.TrimSpace(in.Method),
		Status:      StatusSuccess,
		CreatedAt:   s.now().UTC(),
	}
	created, err := s.store.InsertDonation(ctx, d)
	if err != nil {
		return Donation{}, err
	}
	if err := s.audit.Record(ctx, activity.Entry{
		UserID:   actor.ID,
		Action:   activity.ActionCreate,
		Entity:   "Donation",
		EntityID: created.ID,
		Details: map[string]any{
			"amount": created.Amount(),
			"method": created.Method,
		},
	}); err != nil {
		return created, err
	}
	return created, nil
}

// List pages over donations, newest first. Admin only.
func (s *Service) List(ctx context.Context, actor auth.Principal, page, limit int) ([]Donation, activity.Pagination, error) {
	if actor.IsAnonymous() || !authz.Allowed(actor.Role, authz.DonationRead) {
		return nil, activity.Pagination{}, ErrForbidden
	}
	page, limit = activity.NormalizePage(page, limit)
	items, total, err := s.store.ListDonations(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, activity.Pagination{}, err
	}
	if items == nil {
		items = []Donation{}
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return items, activity.Pagination{Total: total, Page: page, Pages: pages}, nil
}

// ParseAmount converts a positive decimal string with at most two fraction
// digits into minor units: "25.50" -> 2550.
func ParseAmount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	whole, frac, _ := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: at most two decimal places", ErrInvalidAmount)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents := int64(0)
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, raw)
		}
		cents = cents*10 + int64(r-'0')
		if cents > 1<<52 {
			return 0, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
		}
	}
	if cents <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return cents, nil
}

// FormatAmount renders minor units as a decimal string.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
