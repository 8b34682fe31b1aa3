package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"newsdesk.org/internal/content"
)

const articleColumns = `id, slug, title, content, status, language, category_id, author_id,
	is_featured, is_trending, is_breaking, version, published_at, created_at, updated_at`

func (s *Store) CreateArticle(ctx context.Context, a content.Article) (content.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		insert into articles (id, slug, title, content, status, language, category_id, author_id,
			is_featured, is_trending, is_breaking, version, published_at, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		returning `+articleColumns,
		a.ID, a.Slug, a.Title, a.Content, string(a.Status), a.Language, nullString(a.CategoryID),
		a.AuthorID, a.IsFeatured, a.IsTrending, a.IsBreaking, a.Version, a.PublishedAt,
		a.CreatedAt, a.UpdatedAt)
	created, err := scanArticle(row)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return content.Article{}, fmt.Errorf("%w: slug already exists", content.ErrConflict)
		}
		return content.Article{}, err
	}
	return created, nil
}

func (s *Store) GetArticleByID(ctx context.Context, id string) (content.Article, error) {
	row := s.db.QueryRowContext(ctx, `select `+articleColumns+` from articles where id=$1`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Article{}, content.ErrNotFound
	}
	return a, err
}

func (s *Store) GetArticleBySlug(ctx context.Context, slug string) (content.Article, error) {
	row := s.db.QueryRowContext(ctx, `select `+articleColumns+` from articles where slug=$1`, slug)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Article{}, content.ErrNotFound
	}
	return a, err
}

// UpdateArticle writes the full row guarded by the version the caller read.
// The guard makes concurrent editors fail loudly instead of silently
// clobbering each other.
func (s *Store) UpdateArticle(ctx context.Context, a content.Article, expectedVersion int64) (content.Article, error) {
	row := s.db.QueryRowContext(ctx, `
		update articles
		set slug=$2, title=$3, content=$4, status=$5, language=$6, category_id=$7,
			is_featured=$8, is_trending=$9, is_breaking=$10, published_at=$11,
			updated_at=$12, version = version + 1
		where id=$1 and version=$13
		returning `+articleColumns,
		a.ID, a.Slug, a.Title, a.Content, string(a.Status), a.Language, nullString(a.CategoryID),
		a.IsFeatured, a.IsTrending, a.IsBreaking, a.PublishedAt, a.UpdatedAt, expectedVersion)
	updated, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the row is gone or the version is stale; tell them apart.
		var exists bool
		if probeErr := s.db.QueryRowContext(ctx,
			`select exists(select 1 from articles where id=$1)`, a.ID).Scan(&exists); probeErr != nil {
			return content.Article{}, probeErr
		}
		if exists {
			return content.Article{}, fmt.Errorf("%w: stale version %d", content.ErrConflict, expectedVersion)
		}
		return content.Article{}, content.ErrNotFound
	}
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return content.Article{}, fmt.Errorf("%w: slug already exists", content.ErrConflict)
		}
		return content.Article{}, err
	}
	return updated, nil
}

func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from articles where id=$1`, id)
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

func (s *Store) ListArticles(ctx context.Context, f content.ListFilter) ([]content.Article, int64, error) {
	base := psql.Select(articleColumns).From("articles")
	countQ := psql.Select("count(*)").From("articles")

	apply := func(b sq.SelectBuilder) sq.SelectBuilder {
		if f.Status != "" {
			b = b.Where(sq.Eq{"status": string(f.Status)})
		}
		if f.CategoryID != "" {
			b = b.Where(sq.Eq{"category_id": f.CategoryID})
		}
		if f.Language != "" {
			b = b.Where(sq.Eq{"language": f.Language})
		}
		if f.Featured != nil {
			b = b.Where(sq.Eq{"is_featured": *f.Featured})
		}
		if f.Trending != nil {
			b = b.Where(sq.Eq{"is_trending": *f.Trending})
		}
		if f.Breaking != nil {
			b = b.Where(sq.Eq{"is_breaking": *f.Breaking})
		}
		return b
	}
	base = apply(base).
		OrderBy("created_at desc").
		Limit(uint64(f.Limit)).
		Offset(uint64((f.Page - 1) * f.Limit))
	countQ = apply(countQ)

	var total int64
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL, listArgs, err := base.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var articles []content.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (s *Store) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from articles where slug=$1)`, slug).Scan(&taken)
	return taken, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (content.Article, error) {
	var (
		a         content.Article
		status    string
		category  sql.NullString
		published sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Content, &status, &a.Language, &category,
		&a.AuthorID, &a.IsFeatured, &a.IsTrending, &a.IsBreaking, &a.Version, &published,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return content.Article{}, err
	}
	a.Status = content.Status(status)
	if category.Valid {
		a.CategoryID = category.String
	}
	if published.Valid {
		t := published.Time
		a.PublishedAt = &t
	}
	return a, nil
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
