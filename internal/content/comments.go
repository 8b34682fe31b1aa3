package content

import (
	"context"
	"fmt"
	"strings"

	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/authz"
)

// CommentInput is the payload for a public comment.
type CommentInput struct {
	AuthorName  string
	AuthorEmail string
	Body        string
}

// CreateComment attaches a reader comment to a visible article. Comments are
// open to anonymous callers and are not audit-logged: unauthenticated public
// writes would flood the trail with noise.
func (s *Service) CreateComment(ctx context.Context, actor auth.Principal, articleRef string, in CommentInput) (Comment, error) {
	if !authz.Allowed(actor.Role, authz.CommentCreate) {
		return Comment{}, ErrForbidden
	}
	name := strings.TrimSpace(in.AuthorName)
	body := strings.TrimSpace(in.Body)
	if name == "" {
		return Comment{}, fmt.Errorf("%w: author name is required", ErrValidation)
	}
	if body == "" {
		return Comment{}, fmt.Errorf("%w: comment body is required", ErrValidation)
	}
	a, err := s.resolveVisible(ctx, actor, articleRef)
	if err != nil {
		return Comment{}, err
	}
	c := Comment{
		ID:          s.newID(),
		ArticleID:   a.ID,
		AuthorName:  name,
		AuthorEmail: strings.TrimSpace(in.AuthorEmail),
		Body:        body,
		CreatedAt:   s.now().UTC(),
	}
	return s.store.CreateComment(ctx, c)
}

// ListComments returns an article's comments, newest first.
func (s *Service) ListComments(ctx context.Context, actor auth.Principal, articleRef string) ([]Comment, error) {
	a, err := s.resolveVisible(ctx, actor, articleRef)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// resolveVisible finds an article by slug, falling back to id, and applies
// the draft-visibility rule.
func (s *Service) resolveVisible(ctx context.Context, actor auth.Principal, ref string) (Article, error) {
	a, err := s.GetBySlug(ctx, actor, ref)
	if err == nil {
		return a, nil
	}
	return s.GetByID(ctx, actor, ref)
}
