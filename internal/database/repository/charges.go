package repository

import (
	"context"
	"database/sql"
	"time"

	"rentledger/internal/ledger"
)

// ManualChargeRepo handles one-off obligations like settlement charges.
type ManualChargeRepo struct {
	db *sql.DB
}

func NewManualChargeRepo(db *sql.DB) *ManualChargeRepo {
	return &ManualChargeRepo{db: db}
}

func (r *ManualChargeRepo) Insert(ctx context.Context, m ledger.ManualCharge) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO manual_charges(id, tenant_id, kind, due_date, amount, issued_date, note)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`, m.ID, m.TenantID, string(m.Kind), m.DueDate, m.AmountCents, m.IssuedDate, m.Note)
	return err
}

func (r *ManualChargeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM manual_charges WHERE id = ?`, id)
	return err
}

// ListByTenant returns the tenant's charges of the given kinds due in
// [from, to], ordered by due date then insertion. Empty kinds means all.
func (r *ManualChargeRepo) ListByTenant(ctx context.Context, tenantID string, kinds []ledger.ChargeKind, from, to time.Time) ([]ledger.ManualCharge, error) {
	query := `
	SELECT id, tenant_id, kind, due_date, amount, issued_date, note
	FROM manual_charges
	WHERE tenant_id = ? AND due_date >= ? AND due_date <= ?`
	args := []interface{}{tenantID, from, to}
	if len(kinds) > 0 {
		query += ` AND kind IN (` + placeholders(len(kinds)) + `)`
		for _, k := range kinds {
			args = append(args, string(k))
		}
	}
	query += ` ORDER BY due_date, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.ManualCharge
	for rows.Next() {
		var m ledger.ManualCharge
		var kind string
		var issued sql.NullTime
		if err := rows.Scan(&m.ID, &m.TenantID, &kind, &m.DueDate, &m.AmountCents, &issued, &m.Note); err != nil {
			return nil, err
		}
		m.Kind = ledger.ChargeKind(kind)
		if issued.Valid {
			t := issued.Time
			m.IssuedDate = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
