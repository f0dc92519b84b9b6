package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"rentledger/internal/database"
	"rentledger/internal/ledger"
)

// BankRepo handles imported statement lines.
type BankRepo struct {
	db *sql.DB
}

func NewBankRepo(db *sql.DB) *BankRepo {
	return &BankRepo{db: db}
}

func (r *BankRepo) Insert(ctx context.Context, b ledger.BankLine) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO bank(id, op_date, amount, description, created_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, b.ID, b.OpDate, b.AmountCents, b.Description)
	return err
}

// InsertBatch writes all lines in one transaction; on any failure none are
// kept. Strict statement imports persist through here.
func (r *BankRepo) InsertBatch(ctx context.Context, lines []ledger.BankLine) error {
	return database.WithTx(r.db, func(tx *sql.Tx) error {
		for _, b := range lines {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO bank(id, op_date, amount, description, created_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP);
			`, b.ID, b.OpDate, b.AmountCents, b.Description); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BankRepo) Get(ctx context.Context, id string) (*ledger.BankLine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, op_date, amount, description FROM bank WHERE id = ?`, id)
	var b ledger.BankLine
	if err := row.Scan(&b.ID, &b.OpDate, &b.AmountCents, &b.Description); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// List returns bank lines ordered by date then insertion. Zero from/to
// leave that side unbounded.
func (r *BankRepo) List(ctx context.Context, from, to time.Time) ([]ledger.BankLine, error) {
	var where []string
	var args []interface{}
	if !from.IsZero() {
		where = append(where, "op_date >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		where = append(where, "op_date <= ?")
		args = append(args, to)
	}
	query := `SELECT id, op_date, amount, description FROM bank`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY op_date, created_at"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBankLines(rows)
}

// BalanceLine pairs a bank line with the sum of its splits.
type BalanceLine struct {
	ledger.BankLine
	SplitCents int64
}

// ListUnbalanced returns bank lines whose splits do not sum to the bank
// amount, including lines with no splits at all.
func (r *BankRepo) ListUnbalanced(ctx context.Context) ([]BalanceLine, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT b.id, b.op_date, b.amount, b.description, IFNULL(SUM(s.amount), 0) AS split_sum
	FROM bank b
	LEFT JOIN splits s ON s.bank_id = b.id
	GROUP BY b.id
	HAVING split_sum != b.amount
	ORDER BY b.op_date, b.created_at;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BalanceLine
	for rows.Next() {
		var l BalanceLine
		if err := rows.Scan(&l.ID, &l.OpDate, &l.AmountCents, &l.Description, &l.SplitCents); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListUnassigned returns bank lines that have no splits at all.
func (r *BankRepo) ListUnassigned(ctx context.Context, from, to time.Time) ([]ledger.BankLine, error) {
	var where []string
	var args []interface{}
	where = append(where, "s.bank_id IS NULL")
	if !from.IsZero() {
		where = append(where, "b.op_date >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		where = append(where, "b.op_date <= ?")
		args = append(args, to)
	}
	query := `
	SELECT b.id, b.op_date, b.amount, b.description
	FROM bank b
	LEFT JOIN splits s ON s.bank_id = b.id
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY b.op_date, b.created_at`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBankLines(rows)
}

func scanBankLines(rows *sql.Rows) ([]ledger.BankLine, error) {
	var out []ledger.BankLine
	for rows.Next() {
		var b ledger.BankLine
		if err := rows.Scan(&b.ID, &b.OpDate, &b.AmountCents, &b.Description); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
