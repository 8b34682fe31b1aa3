package activity

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsdesk.org/internal/auth"
)

type stubStore struct {
	inserted  []Entry
	insertErr error
	entries   []Entry
	total     int64
	lastQuery Query
	listErr   error
}

func (s *stubStore) InsertEntry(_ context.Context, e Entry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, e)
	return nil
}

func (s *stubStore) ListEntries(_ context.Context, q Query) ([]Entry, int64, error) {
	s.lastQuery = q
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.entries, s.total, nil
}

func TestRecordFillsDefaults(t *testing.T) {
	store := &stubStore{}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(store, log.New(&bytes.Buffer{}, "", 0), WithRecorderClock(func() time.Time { return fixed }))

	err := rec.Record(context.Background(), Entry{Action: ActionCreate, Entity: "Article", EntityID: "a1"})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)

	got := store.inserted[0]
	require.NotEmpty(t, got.ID)
	require.Equal(t, fixed, got.CreatedAt)
	require.NotNil(t, got.Details)
}

func TestRecordSwallowsStorageFailure(t *testing.T) {
	var buf bytes.Buffer
	store := &stubStore{insertErr: errors.New("connection refused")}
	rec := NewRecorder(store, log.New(&buf, "", 0))

	err := rec.Record(context.Background(), Entry{Action: ActionUpdate, Entity: "Article"})
	require.NoError(t, err, "best-effort recorder must not surface storage failures")
	require.Contains(t, buf.String(), "record failed")
	require.Contains(t, buf.String(), "connection refused")
}

func TestRecordStrictPropagates(t *testing.T) {
	store := &stubStore{insertErr: errors.New("down")}
	rec := NewRecorder(store, log.New(&bytes.Buffer{}, "", 0), WithStrict())

	err := rec.Record(context.Background(), Entry{Action: ActionDelete, Entity: "Article"})
	require.Error(t, err)
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, -5, 1, DefaultLimit},
		{-1, 0, 1, DefaultLimit},
		{1, 20, 1, 20},
		{2, 10, 2, 10},
		{3, 1000, 3, MaxLimit},
	}
	for _, tc := range cases {
		p, l := NormalizePage(tc.page, tc.limit)
		require.Equal(t, tc.wantPage, p)
		require.Equal(t, tc.wantLimit, l)
	}
}

func TestListPaginationMath(t *testing.T) {
	actor := auth.Principal{ID: "u1", Role: "viewer"}

	store := &stubStore{total: 45, entries: make([]Entry, 10)}
	svc, err := NewService(store)
	require.NoError(t, err)

	res, err := svc.List(context.Background(), actor, ListRequest{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(45), res.Pagination.Total)
	require.Equal(t, 2, res.Pagination.Page)
	require.Equal(t, 5, res.Pagination.Pages)
	require.Equal(t, 10, store.lastQuery.Offset)
	require.Equal(t, 10, store.lastQuery.Limit)
}

func TestListEmptyTrail(t *testing.T) {
	actor := auth.Principal{ID: "u1", Role: "admin"}
	store := &stubStore{total: 0, entries: nil}
	svc, err := NewService(store)
	require.NoError(t, err)

	res, err := svc.List(context.Background(), actor, ListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotNil(t, res.Logs)
	require.Empty(t, res.Logs)
	require.Equal(t, 0, res.Pagination.Pages)
}

func TestListNormalizesBadInput(t *testing.T) {
	actor := auth.Principal{ID: "u1", Role: "editor"}
	store := &stubStore{total: 3, entries: make([]Entry, 3)}
	svc, err := NewService(store)
	require.NoError(t, err)

	res, err := svc.List(context.Background(), actor, ListRequest{Page: 0, Limit: -5})
	require.NoError(t, err)
	require.Equal(t, 1, res.Pagination.Page)
	require.Equal(t, 0, store.lastQuery.Offset)
	require.Equal(t, DefaultLimit, store.lastQuery.Limit)
	require.Equal(t, 1, res.Pagination.Pages)
}

func TestListPassesFilters(t *testing.T) {
	actor := auth.Principal{ID: "u1", Role: "admin"}
	store := &stubStore{total: 1, entries: make([]Entry, 1)}
	svc, err := NewService(store)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), actor, ListRequest{
		Page: 1, Limit: 20, Entity: "Article", Action: ActionPublish, UserID: "u2",
	})
	require.NoError(t, err)
	require.Equal(t, "Article", store.lastQuery.Entity)
	require.Equal(t, ActionPublish, store.lastQuery.Action)
	require.Equal(t, "u2", store.lastQuery.UserID)
}

func TestListRejectsAnonymous(t *testing.T) {
	svc, err := NewService(&stubStore{})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), auth.Principal{}, ListRequest{Page: 1, Limit: 20})
	require.ErrorIs(t, err, ErrForbidden)
}
