package donations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
)

type stubStore struct {
	inserted []Donation
	items    []Donation
	total    int64
}

func (s *stubStore) InsertDonation(_ context.Context, d Donation) (Donation, error) {
	s.inserted = append(s.inserted, d)
	return d, nil
}

func (s *stubStore) ListDonations(_ context.Context, offset, limit int) ([]Donation, int64, error) {
	return s.items, s.total, nil
}

type captureRecorder struct {
	entries []activity.Entry
}

func (r *captureRecorder) Record(_ context.Context, e activity.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"25.50", 2550, false},
		{"25.5", 2550, false},
		{"25", 2500, false},
		{"0.01", 1, false},
		{".50", 50, false},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"25.505", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			require.ErrorIs(t, err, ErrInvalidAmount, "ParseAmount(%q)", tc.in)
			continue
		}
		require.NoError(t, err, "ParseAmount(%q)", tc.in)
		require.Equal(t, tc.want, got, "ParseAmount(%q)", tc.in)
	}
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "25.50", FormatAmount(2550))
	require.Equal(t, "0.05", FormatAmount(5))
	require.Equal(t, "100.00", FormatAmount(10000))
}

func TestCreateRecordsSuccess(t *testing.T) {
	store := &stubStore{}
	rec := &captureRecorder{}
	svc, err := NewService(store, rec)
	require.NoError(t, err)

	d, err := svc.Create(context.Background(), auth.Principal{}, CreateInput{
		Name:   "Jane Reader",
		Amount: "25.50",
		Method: "card",
	})
	require.NoError(t, err)
	require.NotEmpty(t, d.ID)
	require.Equal(t, int64(2550), d.AmountCents)
	require.Equal(t, "25.50", d.Amount())
	// No payment callback exists; SUCCESS is assigned at creation as-is.
	require.Equal(t, StatusSuccess, d.Status)

	require.Len(t, rec.entries, 1)
	require.Equal(t, "Donation", rec.entries[0].Entity)
	require.Equal(t, activity.ActionCreate, rec.entries[0].Action)
	require.Empty(t, rec.entries[0].UserID, "anonymous donation has no actor")
}

func TestCreateRejectsBadAmount(t *testing.T) {
	store := &stubStore{}
	rec := &captureRecorder{}
	svc, err := NewService(store, rec)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), auth.Principal{}, CreateInput{Name: "X", Amount: "nope"})
	require.ErrorIs(t, err, ErrInvalidAmount)
	require.Empty(t, store.inserted)
	require.Empty(t, rec.entries)
}

func TestListAdminOnly(t *testing.T) {
	store := &stubStore{total: 3, items: make([]Donation, 3)}
	svc, err := NewService(store, &captureRecorder{})
	require.NoError(t, err)

	_, _, err = svc.List(context.Background(), auth.Principal{ID: "u1", Role: "editor"}, 1, 20)
	require.ErrorIs(t, err, ErrForbidden)

	items, page, err := svc.List(context.Background(), auth.Principal{ID: "u1", Role: "admin"}, 0, -5)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.Pages)
	require.Equal(t, int64(3), page.Total)
}
