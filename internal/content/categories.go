package content

import (
	"context"
	"fmt"
	"strings"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/authz"
)

// CreateCategory adds a category. Gated by the category.manage policy and
// audited like every other write.
func (s *Service) CreateCategory(ctx context.Context, actor auth.Principal, name string) (Category, error) {
	if err := s.authorize(ctx, actor, authz.CategoryManage, "Category", ""); err != nil {
		return Category{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c := Category{
		ID:        s.newID(),
		Name:      name,
		Slug:      Slugify(name),
		CreatedAt: s.now().UTC(),
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return Category{}, err
	}
	if err := s.record(ctx, actor, activity.ActionCreate, "Category", created.ID, map[string]any{
		"name": created.Name,
	}); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateCategory renames a category.
func (s *Service) UpdateCategory(ctx context.Context, actor auth.Principal, id, name string) (Category, error) {
	if err := s.authorize(ctx, actor, authz.CategoryManage, "Category", id); err != nil {
		return Category{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	c.Name = name
	c.Slug = Slugify(name)
	updated, err := s.store.UpdateCategory(ctx, c)
	if err != nil {
		return Category{}, err
	}
	if err := s.record(ctx, actor, activity.ActionUpdate, "Category", updated.ID, map[string]any{
		"name": updated.Name,
	}); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteCategory removes a category; articles referencing it are detached,
// not deleted.
func (s *Service) DeleteCategory(ctx context.Context, actor auth.Principal, id string) error {
	if err := s.authorize(ctx, actor, authz.CategoryManage, "Category", id); err != nil {
		return err
	}
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCategory(ctx, c.ID); err != nil {
		return err
	}
	return s.record(ctx, actor, activity.ActionDelete, "Category", c.ID, map[string]any{
		"name": c.Name,
	})
}

// ListCategories is public.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}
