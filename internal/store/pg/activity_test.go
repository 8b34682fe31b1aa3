package pg

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"newsdesk.org/internal/activity"
)

func TestInsertEntry(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectExec(`insert into activity_logs`).
		WithArgs("e1", "u1", "PUBLISH", "Article", "a1", []byte(`{"slug":"x"}`), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertEntry(context.Background(), activity.Entry{
		ID:        "e1",
		UserID:    "u1",
		Action:    "PUBLISH",
		Entity:    "Article",
		EntityID:  "a1",
		Details:   map[string]any{"slug": "x"},
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertEntrySystemActor(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`insert into activity_logs`).
		WithArgs("e2", nil, "CREATE", "Donation", "d1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.InsertEntry(context.Background(), activity.Entry{
		ID:        "e2",
		Action:    "CREATE",
		Entity:    "Donation",
		EntityID:  "d1",
		Details:   map[string]any{},
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestListEntriesJoinsActor(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM activity_logs l`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "action", "entity", "entity_id", "details", "created_at", "name", "email",
	}).
		AddRow("e2", "u1", "UPDATE", "Article", "a1", []byte(`{"changed":["title"]}`), now, "Ed", "ed@example.org").
		AddRow("e1", nil, "CREATE", "Donation", "d1", []byte(`{}`), now.Add(-time.Minute), nil, nil)
	mock.ExpectQuery(`SELECT .+ FROM activity_logs l LEFT JOIN users u on u\.id = l\.user_id ORDER BY l\.created_at desc, l\.id desc LIMIT 10 OFFSET 10`).
		WillReturnRows(rows)

	entries, total, err := store.ListEntries(context.Background(), activity.Query{Offset: 10, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].User == nil || entries[0].User.Name != "Ed" {
		t.Fatalf("expected actor summary on first entry, got %+v", entries[0].User)
	}
	if entries[1].User != nil {
		t.Fatalf("system entry must have no actor summary, got %+v", entries[1].User)
	}
	if entries[0].Details["changed"] == nil {
		t.Fatal("expected decoded details payload")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
