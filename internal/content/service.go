package content

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

const defaultLanguage = "en"

// AuditRecorder receives one entry per successful mutation.
type AuditRecorder interface {
	Record(ctx context.Context, e activity.Entry) error
}

// Service is the article lifecycle manager. Every mutating operation funnels
// through the same sequence: authorize, validate, mutate, record. A denied or
// invalid request performs no write and leaves no audit entry.
type Service struct {
	store Store
	audit AuditRecorder
	now   func() time.Time
	newID func() string

	// auditDenied also records denied authorization attempts. Off by
	// default; the audit trail then only contains successful actions.
	auditDenied bool
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

// WithIDGenerator overrides id generation (test use).
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithDeniedAudit records denied attempts as DENIED entries.
func WithDeniedAudit() Option {
	return func(s *Service) { s.auditDenied = true }
}

// NewService constructs the lifecycle manager.
func NewService(store Store, audit AuditRecorder, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("content store is required")
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

// Create stores a new draft owned by the actor.
func (s *Service) Create(ctx context.Context, actor auth.Principal, in CreateInput) (Article, error) {
	if err := s.authorize(ctx, actor, authz.ArticleCreate, "Article", ""); err != nil {
		return Article{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Article{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = defaultLanguage
	}

	id := s.newID()
	slug, err := s.uniqueSlug(ctx, title, id)
	if err != nil {
		return Article{}, err
	}

	now := s.now().UTC()
	a := Article{
		ID:         id,
		Slug:       slug,
		Title:      title,
		Content:    in.Content,
		Status:     StatusDraft,
		Language:   language,
		CategoryID: strings.TrimSpace(in.CategoryID),
		AuthorID:   actor.ID,
		IsFeatured: in.IsFeatured,
		IsTrending: in.IsTrending,
		IsBreaking: in.IsBreaking,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.store.CreateArticle(ctx, a)
	if err != nil {
		return Article{}, err
	}
	if err := s.record(ctx, actor, activity.ActionCreate, "Article", created.ID, map[string]any{
		"title": created.Title,
		"slug":  created.Slug,
	}); err != nil {
		return created, err
	}
	return created, nil
}

// Update applies a guarded partial mutation. The caller must present the
// version it read; a stale version fails with ErrConflict and no write.
// Status is settable here, so the status/published consistency invariant is
// enforced on this path exactly as on the dedicated publish/archive ones.
func (s *Service) Update(ctx context.Context, actor auth.Principal, id string, in UpdateInput) (Article, error) {
	if err := s.authorize(ctx, actor, authz.ArticleUpdate, "Article", id); err != nil {
		return Article{}, err
	}
	if in.Version <= 0 {
		return Article{}, fmt.Errorf("%w: version is required", ErrValidation)
	}
	a, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		return Article{}, err
	}

	var changed []string
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Article{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		if title != a.Title {
			a.Title = title
			changed = append(changed, "title")
		}
	}
	if in.Content != nil && *in.Content != a.Content {
		a.Content = *in.Content
		changed = append(changed, "content")
	}
	if in.Language != nil {
		language := strings.TrimSpace(*in.Language)
		if language == "" {
			language = defaultLanguage
		}
		if language != a.Language {
			a.Language = language
			changed = append(changed, "language")
		}
	}
	if in.Slug != nil {
		if err := s.applySlugChange(ctx, &a, *in.Slug, &changed); err != nil {
			return Article{}, err
		}
	}
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) != a.CategoryID {
		a.CategoryID = strings.TrimSpace(*in.CategoryID)
		changed = append(changed, "category_id")
	}
	if in.IsFeatured != nil && *in.IsFeatured != a.IsFeatured {
		a.IsFeatured = *in.IsFeatured
		changed = append(changed, "is_featured")
	}
	if in.IsTrending != nil && *in.IsTrending != a.IsTrending {
		a.IsTrending = *in.IsTrending
		changed = append(changed, "is_trending")
	}
	if in.IsBreaking != nil && *in.IsBreaking != a.IsBreaking {
		a.IsBreaking = *in.IsBreaking
		changed = append(changed, "is_breaking")
	}
	if in.Status != nil && *in.Status != a.Status {
		if err := s.applyStatusChange(&a, *in.Status); err != nil {
			return Article{}, err
		}
		changed = append(changed, "status")
	}

	if len(changed) == 0 {
		return a, nil
	}
	a.UpdatedAt = s.now().UTC()

	updated, err := s.store.UpdateArticle(ctx, a, in.Version)
	if err != nil {
		return Article{}, err
	}
	if err := s.record(ctx, actor, activity.ActionUpdate, "Article", updated.ID, map[string]any{
		"changed": changed,
	}); err != nil {
		return updated, err
	}
	return updated, nil
}

// Publish moves a draft to PUBLISHED. The target state requires a non-empty
// title and content.
func (s *Service) Publish(ctx context.Context, actor auth.Principal, id string) (Article, error) {
	if err := s.authorize(ctx, actor, authz.ArticlePublish, "Article", id); err != nil {
		return Article{}, err
	}
	a, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if a.Status != StatusDraft {
		return Article{}, fmt.Errorf("%w: only draft articles can be published", ErrValidation)
	}
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
		return Article{}, fmt.Errorf("%w: publishing requires a title and content", ErrValidation)
	}
	if a.Slug == "" {
		slug, err := s.uniqueSlug(ctx, a.Title, a.ID)
		if err != nil {
			return Article{}, err
		}
		a.Slug = slug
	}
	now := s.now().UTC()
	a.Status = StatusPublished
	if a.PublishedAt == nil {
		a.PublishedAt = &now
	}
	a.UpdatedAt = now

	updated, err := s.store.UpdateArticle(ctx, a, a.Version)
	if err != nil {
		return Article{}, err
	}
	if err := s.record(ctx, actor, activity.ActionPublish, "Article", updated.ID, map[string]any{
		"slug": updated.Slug,
	}); err != nil {
		return updated, err
	}
	return updated, nil
}

// Archive moves a published article to ARCHIVED. The slug stays untouched.
func (s *Service) Archive(ctx context.Context, actor auth.Principal, id string) (Article, error) {
	if err := s.authorize(ctx, actor, authz.ArticleArchive, "Article", id); err != nil {
		return Article{}, err
	}
	a, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if a.Status != StatusPublished {
		return Article{}, fmt.Errorf("%w: only published articles can be archived", ErrValidation)
	}
	a.Status = StatusArchived
	a.UpdatedAt = s.now().UTC()

	updated, err := s.store.UpdateArticle(ctx, a, a.Version)
	if err != nil {
		return Article{}, err
	}
	if err := s.record(ctx, actor, activity.ActionArchive, "Article", updated.ID, nil); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes the article. The audit entry carries a snapshot of the row
// taken before deletion, because nothing remains to reference afterwards.
func (s *Service) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if err := s.authorize(ctx, actor, authz.ArticleDelete, "Article", id); err != nil {
		return err
	}
	a, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteArticle(ctx, a.ID); err != nil {
		return err
	}
	return s.record(ctx, actor, activity.ActionDelete, "Article", a.ID, map[string]any{
		"snapshot": map[string]any{
			"id":     a.ID,
			"title":  a.Title,
			"slug":   a.Slug,
			"status": string(a.Status),
		},
	})
}

// GetBySlug loads one article. Unpublished articles are visible to staff
// roles only; everyone else gets ErrNotFound rather than a hint that the
// draft exists.
func (s *Service) GetBySlug(ctx context.Context, actor auth.Principal, slug string) (Article, error) {
	a, err := s.store.GetArticleBySlug(ctx, slug)
	if err != nil {
		return Article{}, err
	}
	if a.Status != StatusPublished && !isStaff(actor) {
		return Article{}, ErrNotFound
	}
	return a, nil
}

// GetByID loads one article with the same visibility rule as GetBySlug.
func (s *Service) GetByID(ctx context.Context, actor auth.Principal, id string) (Article, error) {
	a, err := s.store.GetArticleByID(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if a.Status != StatusPublished && !isStaff(actor) {
		return Article{}, ErrNotFound
	}
	return a, nil
}

// List pages over articles. Non-staff callers only ever see published ones,
// whatever filter they pass.
func (s *Service) List(ctx context.Context, actor auth.Principal, f ListFilter) ([]Article, int64, error) {
	f.Page, f.Limit = activity.NormalizePage(f.Page, f.Limit)
	if !isStaff(actor) {
		f.Status = StatusPublished
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %s", ErrValidation, f.Status)
	}
	articles, total, err := s.store.ListArticles(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if articles == nil {
		articles = []Article{}
	}
	return articles, total, nil
}

func (s *Service) applySlugChange(ctx context.Context, a *Article, raw string, changed *[]string) error {
	slug := Slugify(raw)
	if slug == a.Slug {
		return nil
	}
	if a.PublishedAt != nil {
		return fmt.Errorf("%w: slug is immutable once published", ErrValidation)
	}
	if slug == "" {
		return fmt.Errorf("%w: slug cannot be empty", ErrValidation)
	}
	taken, err := s.store.SlugTaken(ctx, slug)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: slug %s is taken", ErrConflict, slug)
	}
	a.Slug = slug
	*changed = append(*changed, "slug")
	return nil
}

func (s *Service) applyStatusChange(a *Article, target Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %s", ErrValidation, target)
	}
	if target == StatusPublished {
		if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
			return fmt.Errorf("%w: publishing requires a title and content", ErrValidation)
		}
		if a.PublishedAt == nil {
			now := s.now().UTC()
			a.PublishedAt = &now
		}
	}
	a.Status = target
	return nil
}

// uniqueSlug derives a slug from the title and suffixes it until it is free.
func (s *Service) uniqueSlug(ctx context.Context, title, id string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = strings.ToLower(id)
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.store.SlugTaken(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		if i > 50 {
			return fmt.Sprintf("%s-%s", base, strings.ToLower(id[len(id)-6:])), nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Service) authorize(ctx context.Context, actor auth.Principal, action authz.Action, entity, entityID string) error {
	if authz.Allowed(actor.Role, action) {
		return nil
	}
	if s.auditDenied {
		_ = s.audit.Record(ctx, activity.Entry{
			UserID:   actor.ID,
			Action:   activity.ActionDenied,
			Entity:   entity,
			EntityID: entityID,
			Details:  map[string]any{"attempted": string(action)},
		})
	}
	return ErrForbidden
}

func (s *Service) record(ctx context.Context, actor auth.Principal, action, entity, entityID string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return s.audit.Record(ctx, activity.Entry{
		UserID:   actor.ID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	})
}

func isStaff(actor auth.Principal) bool {
	return actor.Role == authz.RoleAdmin || actor.Role == authz.RoleEditor
}
