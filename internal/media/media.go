// Package media tracks uploaded asset metadata. The service stores records
// about files living elsewhere (object storage, CDN); it never touches file
// bytes itself.
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/authz"
	"newsdesk.org/internal/ids"
)

var (
	ErrNotFound   = errors.New("media: not found")
	ErrForbidden  = errors.New("media: forbidden")
	ErrValidation = errors.New("media: validation failed")
)

// Media is one asset metadata record.
type Media struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	MimeType   string    `json:"mime_type,omitempty"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the persistence surface for media records.
type Store interface {
	InsertMedia(ctx context.Context, m Media) (Media, error)
	GetMedia(ctx context.Context, id string) (Media, error)
	ListMedia(ctx context.Context, offset, limit int) ([]Media, int64, error)
	DeleteMedia(ctx context.Context, id string) error
}

// AuditRecorder receives one entry per successful mutation.
type AuditRecorder interface {
	Record(ctx context.Context, e activity.Entry) error
}

// CreateInput registers an already-uploaded asset.
type CreateInput struct {
	FileName  string
	URL       string
	MimeType  string
	SizeBytes int64
}

// Service gates the media catalog behind the media.manage policy.
type Service struct {
	store Store
	audit AuditRecorder
	now   func() time.Time
	newID func() string
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

// NewService constructs the media catalog service.
func NewService(store Store, audit AuditRecorder, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("media store is required")
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

// Create registers an asset record.
func (s *Service) Create(ctx context.Context, actor auth.Principal, in CreateInput) (Media, error) {
	if !authz.Allowed(actor.Role, authz.MediaManage) {
		return Media{}, ErrForbidden
	}
	fileName := strings.TrimSpace(in.FileName)
	url := strings.TrimSpace(in.URL)
	if fileName == "" {
		return Media{}, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if url == "" {
		return Media{}, fmt.Errorf("%w: url is required", ErrValidation)
	}
	if in.SizeBytes < 0 {
		return Media{}, fmt.Errorf("%w: size cannot be negative", ErrValidation)
	}
	m := Media{
		ID:         s.newID(),
		FileName:   fileName,
		URL:        url,
		MimeType:   strings.TrimSpace(in.MimeType),
		SizeBytes:  in.SizeBytes,
		UploadedBy: actor.ID,
		CreatedAt:  s.now().UTC(),
	}
	created, err := s.store.InsertMedia(ctx, m)
	if err != nil {
		return Media{}, err
	}
	if err := s.audit.Record(ctx, activity.Entry{
		UserID:   actor.ID,
		Action:   activity.ActionCreate,
		Entity:   "Media",
		EntityID: created.ID,
		Details:  map[string]any{"file_name": created.FileName},
	}); err != nil {
		return created, err
	}
	return created, nil
}

// List pages over the catalog, newest first. Staff only.
func (s *Service) List(ctx context.Context, actor auth.Principal, page, limit int) ([]Media, activity.Pagination, error) {
	if !authz.Allowed(actor.Role, authz.MediaManage) {
		return nil, activity.Pagination{}, ErrForbidden
	}
	page, limit = activity.NormalizePage(page, limit)
	items, total, err := s.store.ListMedia(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, activity.Pagination{}, err
	}
	if items == nil {
		items = []Media{}
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return items, activity.Pagination{Total: total, Page: page, Pages: pages}, nil
}

// Delete removes a record. The audit entry carries the file name captured
// before deletion.
func (s *Service) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if !authz.Allowed(actor.Role, authz.MediaManage) {
		return ErrForbidden
	}
	m, err := s.store.GetMedia(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMedia(ctx, m.ID); err != nil {
		return err
	}
	return s.audit.Record(ctx, activity.Entry{
		UserID:   actor.ID,
		Action:   activity.ActionDelete,
		Entity:   "Media",
		EntityID: m.ID,
		Details:  map[string]any{"file_name": m.FileName},
	})
}
