package pg

import (
	"context"

	"newsdesk.org/internal/donations"
)

func (s *Store) InsertDonation(ctx context.Context, d donations.Donation) (donations.Donation, error) {
	_, err := s.db.ExecContext(ctx, `
		insert into donations (id, name, email, amount_cents, message, method, status, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.Name, d.Email, d.AmountCents, d.Message, d.Method, d.Status, d.CreatedAt)
	if err != nil {
		return donations.Donation{}, err
	}
	return d, nil
}

func (s *Store) ListDonations(ctx context.Context, offset, limit int) ([]donations.Donation, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `select count(*) from donations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, name, email, amount_cents, message, method, status, created_at
		from donations
		order by created_at desc
		limit $1 offset $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []donations.Donation
	for rows.Next() {
		var d donations.Donation
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.AmountCents, &d.Message, &d.Method,
			&d.Status, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
