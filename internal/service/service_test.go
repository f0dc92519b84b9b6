package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"rentledger/internal/database"
	"rentledger/internal/database/repository"
	"rentledger/internal/ledger"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaults(context.Background(), db))
	return db
}

func seedTenant(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()
	require.NoError(t, repository.NewTenantRepo(db).Upsert(context.Background(),
		ledger.Tenant{ID: id, Name: name, Unit: "Whg " + id}))
}

func seedBankLine(t *testing.T, db *sql.DB, date time.Time, cents int64, desc string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, repository.NewBankRepo(db).Insert(context.Background(),
		ledger.BankLine{ID: id, OpDate: date, AmountCents: cents, Description: desc}))
	return id
}

func seedPayment(t *testing.T, db *sql.DB, tenantID, account string, date time.Time, cents int64) {
	t.Helper()
	bankID := seedBankLine(t, db, date, cents, "Zahlung "+tenantID)
	require.NoError(t, repository.NewSplitRepo(db).InsertBatch(context.Background(), []ledger.Split{{
		ID:          uuid.NewString(),
		BankID:      bankID,
		Account:     account,
		TenantID:    &tenantID,
		AmountCents: cents,
	}}))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testAccountSets() AccountSets {
	return AccountSets{Rent: []string{"3000"}, NK: []string{"3010"}, Settlement: []string{"3020"}}
}
