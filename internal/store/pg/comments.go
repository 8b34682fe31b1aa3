package pg

import (
	"context"

	"newsdesk.org/internal/content"
)

func (s *Store) CreateComment(ctx context.Context, c content.Comment) (content.Comment, error) {
	_, err := s.db.ExecContext(ctx, `
		insert into comments (id, article_id, author_name, author_email, body, created_at)
		values ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.ArticleID, c.AuthorName, c.AuthorEmail, c.Body, c.CreatedAt)
	if err != nil {
		return content.Comment{}, err
	}
	return c, nil
}

func (s *Store) ListComments(ctx context.Context, articleID string) ([]content.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, article_id, author_name, author_email, body, created_at
		from comments
		where article_id=$1
		order by created_at desc`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []content.Comment
	for rows.Next() {
		var c content.Comment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorName, &c.AuthorEmail, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}
