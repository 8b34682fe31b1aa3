package pg

import (
	"context"
	"database/sql"
	"errors"

	"newsdesk.org/internal/media"
)

const mediaColumns = `id, file_name, url, mime_type, size_bytes, uploaded_by, created_at`

func (s *Store) InsertMedia(ctx context.Context, m media.Media) (media.Media, error) {
	_, err := s.db.ExecContext(ctx, `
		insert into media (id, file_name, url, mime_type, size_bytes, uploaded_by, created_at)
		values ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.FileName, m.URL, m.MimeType, m.SizeBytes, m.UploadedBy, m.CreatedAt)
	if err != nil {
		return media.Media{}, err
	}
	return m, nil
}

func (s *Store) GetMedia(ctx context.Context, id string) (media.Media, error) {
	row := s.db.QueryRowContext(ctx, `select `+mediaColumns+` from media where id=$1`, id)
	var m media.Media
	err := row.Scan(&m.ID, &m.FileName, &m.URL, &m.MimeType, &m.SizeBytes, &m.UploadedBy, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return media.Media{}, media.ErrNotFound
	}
	return m, err
}

func (s *Store) ListMedia(ctx context.Context, offset, limit int) ([]media.Media, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `select count(*) from media`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx,
		`select `+mediaColumns+` from media order by created_at desc limit $1 offset $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []media.Media
	for rows.Next() {
		var m media.Media
		if err := rows.Scan(&m.ID, &m.FileName, &m.URL, &m.MimeType, &m.SizeBytes,
			&m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from media where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return media.ErrNotFound
	}
	return nil
}
