package repository

import (
	"context"
	"database/sql"

	"rentledger/internal/ledger"
)

// AccountRepo handles the chart of accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Upsert(ctx context.Context, a ledger.Account) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO accounts(number, name, kind)
	VALUES (?, ?, ?)
	ON CONFLICT(number) DO UPDATE SET
	 name=excluded.name,
	 kind=excluded.kind;
	`, a.Number, a.Name, a.Kind)
	return err
}

func (r *AccountRepo) Exists(ctx context.Context, number string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE number = ?`, number).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *AccountRepo) List(ctx context.Context) ([]ledger.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT number, name, kind FROM accounts ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Account
	for rows.Next() {
		var a ledger.Account
		if err := rows.Scan(&a.Number, &a.Name, &a.Kind); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
