// Package pg implements the persistence interfaces on Postgres through
// database/sql and the pgx driver.
package pg

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/content"
	"newsdesk.org/internal/donations"
	"newsdesk.org/internal/media"
)

const (
	pgErrUniqueViolation = "23505"
)

// Store wraps a shared connection pool. One Store serves every repository
// interface in the service; no operation holds a connection across an
// externally-awaited event.
type Store struct {
	db *sql.DB
}

var (
	_ content.Store   = (*Store)(nil)
	_ activity.Store  = (*Store)(nil)
	_ donations.Store = (*Store)(nil)
	_ media.Store     = (*Store)(nil)
	_ auth.UserStore  = (*Store)(nil)
)

// psql builds queries with Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Open connects to Postgres and tunes the pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing pool (test use with sqlmock).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the pool for the readiness probe and the migration runner.
func (s *Store) DB() *sql.DB { return s.db }
