package repository

import (
	"context"
	"database/sql"

	"rentledger/internal/ledger"
)

// TenantRepo handles rental parties.
type TenantRepo struct {
	db *sql.DB
}

func NewTenantRepo(db *sql.DB) *TenantRepo {
	return &TenantRepo{db: db}
}

func (r *TenantRepo) Upsert(ctx context.Context, t ledger.Tenant) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tenants(id, name, unit)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 unit=excluded.unit;
	`, t.ID, t.Name, t.Unit)
	return err
}

func (r *TenantRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tenants WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *TenantRepo) List(ctx context.Context) ([]ledger.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, unit FROM tenants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Tenant
	for rows.Next() {
		var t ledger.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Unit); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
