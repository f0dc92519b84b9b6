package repository

import (
	"context"
	"database/sql"
	"time"

	"rentledger/internal/ledger"
)

// LeaseRepo handles standing monthly obligations, keyed on (tenant, since).
type LeaseRepo struct {
	db *sql.DB
}

func NewLeaseRepo(db *sql.DB) *LeaseRepo {
	return &LeaseRepo{db: db}
}

// Upsert inserts or replaces the lease row for (tenant, since). A changed
// obligation gets a new row with a later since date; the old row is
// superseded, never merged.
func (r *LeaseRepo) Upsert(ctx context.Context, l ledger.Lease) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO leases(tenant_id, since, until, rent, nk, due_day, tolerance, grace_days)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(tenant_id, since) DO UPDATE SET
	 until=excluded.until,
	 rent=excluded.rent,
	 nk=excluded.nk,
	 due_day=excluded.due_day,
	 tolerance=excluded.tolerance,
	 grace_days=excluded.grace_days;
	`, l.TenantID, l.Since, l.Until, l.RentCents, l.NKCents, l.DueDay, l.ToleranceCents, l.GraceDays)
	return err
}

// ActiveIn returns leases active at any point in [first, last], ordered by
// tenant then since.
func (r *LeaseRepo) ActiveIn(ctx context.Context, first, last time.Time) ([]ledger.Lease, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT tenant_id, since, until, rent, nk, due_day, tolerance, grace_days
	FROM leases
	WHERE since <= ? AND (until IS NULL OR until >= ?)
	ORDER BY tenant_id, since`, last, first)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Lease
	for rows.Next() {
		var l ledger.Lease
		var until sql.NullTime
		if err := rows.Scan(&l.TenantID, &l.Since, &until, &l.RentCents, &l.NKCents,
			&l.DueDay, &l.ToleranceCents, &l.GraceDays); err != nil {
			return nil, err
		}
		if until.Valid {
			t := until.Time
			l.Until = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
