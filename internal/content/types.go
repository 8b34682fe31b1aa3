package content

import (
	"context"
	"encoding/json"
	"time"
)

// Status is the single source of truth for an article's lifecycle state.
// The legacy `published` boolean the public API still exposes is derived from
// it and never stored.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Article is a news item. Slug is unique and immutable once the article has
// been published. Version guards concurrent edits: updates must present the
// version they read.
type Article struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Status      Status     `json:"status"`
	Language    string     `json:"language"`
	CategoryID  string     `json:"category_id,omitempty"`
	AuthorID    string     `json:"author_id"`
	IsFeatured  bool       `json:"is_featured"`
	IsTrending  bool       `json:"is_trending"`
	IsBreaking  bool       `json:"is_breaking"`
	Version     int64      `json:"version"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Published derives the legacy boolean from the status.
func (a Article) Published() bool {
	return a.Status == StatusPublished
}

// MarshalJSON keeps the `published` field on the wire for backward
// compatibility while the struct itself carries only the status.
func (a Article) MarshalJSON() ([]byte, error) {
	type alias Article
	return json.Marshal(struct {
		alias
		Published bool `json:"published"`
	}{alias(a), a.Published()})
}

// Comment is a public reader comment attached to an article.
type Comment struct {
	ID          string    `json:"id"`
	ArticleID   string    `json:"article_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups articles. Deleting a category detaches its articles rather
// than removing them.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput is the payload for a new article. Status is not settable here:
// every article starts as a draft.
type CreateInput struct {
	Title      string
	Content    string
	Language   string
	CategoryID string
	IsFeatured bool
	IsTrending bool
	IsBreaking bool
}

// UpdateInput mutates an existing article. Nil fields are left untouched.
// Version is required and must match the version the caller read.
type UpdateInput struct {
	Title      *string
	Content    *string
	Language   *string
	Slug       *string
	CategoryID *string
	Status     *Status
	IsFeatured *bool
	IsTrending *bool
	IsBreaking *bool
	Version    int64
}

// ListFilter narrows and pages the article listing.
type ListFilter struct {
	Status     Status
	CategoryID string
	Language   string
	Featured   *bool
	Trending   *bool
	Breaking   *bool
	Page       int
	Limit      int
}

// Store is the persistence surface the lifecycle manager drives.
type Store interface {
	CreateArticle(ctx context.Context, a Article) (Article, error)
	GetArticleByID(ctx context.Context, id string) (Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (Article, error)
	// UpdateArticle applies a full-row write guarded by expectedVersion and
	// bumps the version. It returns ErrConflict when the guard misses.
	UpdateArticle(ctx context.Context, a Article, expectedVersion int64) (Article, error)
	DeleteArticle(ctx context.Context, id string) error
	ListArticles(ctx context.Context, f ListFilter) ([]Article, int64, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)

	CreateComment(ctx context.Context, c Comment) (Comment, error)
	ListComments(ctx context.Context, articleID string) ([]Comment, error)

	CreateCategory(ctx context.Context, c Category) (Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	UpdateCategory(ctx context.Context, c Category) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
}
