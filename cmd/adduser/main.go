// adduser provisions an account directly in the database. There is no public
// signup endpoint; staff accounts are created by operators with this tool.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/authz"
	"newsdesk.org/internal/ids"
)

func main() {
	log.SetFlags(0)
	var (
		dsn      = flag.String("dsn", os.Getenv("NEWSDESK_PG_DSN"), "PostgreSQL DSN")
		name     = flag.String("name", "", "Display name")
		email    = flag.String("email", "", "Login email")
		password = flag.String("password", "", "Initial password")
		role     = flag.String("role", authz.RoleViewer, "Role: admin, editor or viewer")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or NEWSDESK_PG_DSN")
	}
	if *name == "" || *email == "" || *password == "" {
		log.Fatal("name, email and password are required")
	}
	normalizedRole := auth.NormalizeRole(*role)
	switch normalizedRole {
	case authz.RoleAdmin, authz.RoleEditor, authz.RoleViewer:
	default:
		log.Fatalf("unknown role %q", *role)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id := ids.New()
	now := time.Now().UTC()
	_, err = db.ExecContext(ctx, `
		insert into users (id, name, email, password_hash, role, active, created_at, updated_at)
		values ($1,$2,$3,$4,$5,true,$6,$6)`,
		id, *name, strings.ToLower(strings.TrimSpace(*email)), hash, normalizedRole, now)
	if err != nil {
		log.Fatalf("insert user: %v", err)
	}
	log.Printf("created %s user %s (%s)", normalizedRole, *name, id)
}
