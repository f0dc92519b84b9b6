package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"rentledger/internal/database"
	"rentledger/internal/ledger"
)

// SplitRepo handles allocation lines.
type SplitRepo struct {
	db *sql.DB
}

func NewSplitRepo(db *sql.DB) *SplitRepo {
	return &SplitRepo{db: db}
}

// InsertBatch writes all splits in one transaction; on any failure none
// are kept.
func (r *SplitRepo) InsertBatch(ctx context.Context, splits []ledger.Split) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, s := range splits {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO splits(id, bank_id, account, tenant_id, amount, note, created_at)
			VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
			`, s.ID, s.BankID, s.Account, s.TenantID, s.AmountCents, s.Note); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SplitRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM splits WHERE id = ?`, id)
	return err
}

func (r *SplitRepo) ListByBank(ctx context.Context, bankID string) ([]ledger.Split, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, bank_id, account, tenant_id, amount, note
	FROM splits WHERE bank_id = ? ORDER BY created_at, id`, bankID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Split
	for rows.Next() {
		var s ledger.Split
		var tenant sql.NullString
		if err := rows.Scan(&s.ID, &s.BankID, &s.Account, &tenant, &s.AmountCents, &s.Note); err != nil {
			return nil, err
		}
		if tenant.Valid {
			s.TenantID = &tenant.String
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SplitRepo) SumByBank(ctx context.Context, bankID string) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT IFNULL(SUM(amount), 0) FROM splits WHERE bank_id = ?`, bankID).Scan(&sum)
	return sum, err
}

// Flows returns the tenant's split amounts on the given accounts within
// [from, to], ordered by operation date then insertion. Callers derive the
// aging payment stream (positive amounts only) or paid totals from it.
func (r *SplitRepo) Flows(ctx context.Context, tenantID string, accounts []string, from, to time.Time) ([]ledger.Payment, error) {
	if len(accounts) == 0 {
		return nil, nil
	}
	args := []interface{}{tenantID}
	for _, a := range accounts {
		args = append(args, a)
	}
	args = append(args, from, to)
	query := `
	SELECT b.op_date, s.amount
	FROM splits s
	JOIN bank b ON b.id = s.bank_id
	WHERE s.tenant_id = ? AND s.account IN (` + placeholders(len(accounts)) + `)
	 AND b.op_date >= ? AND b.op_date <= ?
	ORDER BY b.op_date, s.created_at, s.id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Payment
	for rows.Next() {
		var p ledger.Payment
		if err := rows.Scan(&p.Date, &p.AmountCents); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
