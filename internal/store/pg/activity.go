package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"newsdesk.org/internal/activity"
)

// InsertEntry appends one audit record. The table is append-only; nothing in
// the service updates or deletes rows here.
func (s *Store) InsertEntry(ctx context.Context, e activity.Entry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		insert into activity_logs (id, user_id, action, entity, entity_id, details, created_at)
		values ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, nullString(e.UserID), e.Action, e.Entity, e.EntityID, details, e.CreatedAt)
	return err
}

// ListEntries returns one page ordered by created_at descending, joined with
// the actor summary. The join is a left join on purpose: entries outlive
// their principals.
func (s *Store) ListEntries(ctx context.Context, q activity.Query) ([]activity.Entry, int64, error) {
	apply := func(b sq.SelectBuilder) sq.SelectBuilder {
		if q.UserID != "" {
			b = b.Where(sq.Eq{"l.user_id": q.UserID})
		}
		if q.Entity != "" {
			b = b.Where(sq.Eq{"l.entity": q.Entity})
		}
		if q.Action != "" {
			b = b.Where(sq.Eq{"l.action": q.Action})
		}
		return b
	}

	countSQL, countArgs, err := apply(psql.Select("count(*)").From("activity_logs l")).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL, listArgs, err := apply(psql.
		Select("l.id", "l.user_id", "l.action", "l.entity", "l.entity_id", "l.details", "l.created_at",
			"u.name", "u.email").
		From("activity_logs l").
		LeftJoin("users u on u.id = l.user_id")).
		OrderBy("l.created_at desc", "l.id desc").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var (
			e       activity.Entry
			userID  sql.NullString
			details []byte
			name    sql.NullString
			email   sql.NullString
		)
		if err := rows.Scan(&e.ID, &userID, &e.Action, &e.Entity, &e.EntityID, &details,
			&e.CreatedAt, &name, &email); err != nil {
			return nil, 0, err
		}
		if userID.Valid {
			e.UserID = userID.String
			e.User = &activity.ActorSummary{
				ID:    userID.String,
				Name:  name.String,
				Email: email.String,
			}
		}
		e.Details = map[string]any{}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, 0, fmt.Errorf("decode details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
