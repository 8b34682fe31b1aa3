package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsdesk.org/internal/content"
)

func (s *Store) CreateCategory(ctx context.Context, c content.Category) (content.Category, error) {
	_, err := s.db.ExecContext(ctx, `
		insert into categories (id, name, slug, created_at)
		values ($1,$2,$3,$4)`,
		c.ID, c.Name, c.Slug, c.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return content.Category{}, fmt.Errorf("%w: category slug already exists", content.ErrConflict)
		}
		return content.Category{}, err
	}
	return c, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (content.Category, error) {
	var c content.Category
	err := s.db.QueryRowContext(ctx,
		`select id, name, slug, created_at from categories where id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Category{}, content.ErrNotFound
	}
	return c, err
}

func (s *Store) UpdateCategory(ctx context.Context, c content.Category) (content.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`update categories set name=$2, slug=$3 where id=$1`, c.ID, c.Name, c.Slug)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return content.Category{}, fmt.Errorf("%w: category slug already exists", content.ErrConflict)
		}
		return content.Category{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return content.Category{}, err
	}
	if affected == 0 {
		return content.Category{}, content.ErrNotFound
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from categories where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]content.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, name, slug, created_at from categories order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []content.Category
	for rows.Next() {
		var c content.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}
