package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"rentledger/internal/database/repository"
	"rentledger/internal/ledger"
)

func newAgingService(t *testing.T) (*AgingService, *sql.DB) {
	t.Helper()
	db := newTestDB(t)
	return &AgingService{
		Tenants:  repository.NewTenantRepo(db),
		Leases:   repository.NewLeaseRepo(db),
		Charges:  repository.NewManualChargeRepo(db),
		Splits:   repository.NewSplitRepo(db),
		Accounts: testAccountSets(),
	}, db
}

func seedLease(t *testing.T, db *sql.DB, l ledger.Lease) {
	t.Helper()
	require.NoError(t, repository.NewLeaseRepo(db).Upsert(context.Background(), l))
}

func seedSettlement(t *testing.T, db *sql.DB, tenantID string, due time.Time, cents int64) {
	t.Helper()
	require.NoError(t, repository.NewManualChargeRepo(db).Insert(context.Background(), ledger.ManualCharge{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Kind:        ledger.KindSettlement,
		DueDate:     due,
		AmountCents: cents,
	}))
}

func TestComputeAppliesPaymentsOldestFirst(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	seedLease(t, db, ledger.Lease{
		TenantID:  "M001",
		Since:     day(2026, time.March, 1),
		RentCents: 85000,
		NKCents:   20000,
		DueDay:    3,
	})
	// one payment covering the rent and part of the advance
	seedPayment(t, db, "M001", "3000", day(2026, time.March, 5), 90000)

	rows, err := svc.Compute(ctx, day(2026, time.March, 31), day(2026, time.March, 1), ledger.PriorityOldest)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, "M001", row.Tenant.ID)
	require.Len(t, row.Open, 1)
	require.Equal(t, ledger.KindNK, row.Open[0].Kind)
	require.Equal(t, int64(15000), row.Open[0].OpenCents)
	require.Equal(t, int64(15000), row.Buckets.B0to30)
	require.Equal(t, int64(15000), row.Buckets.Total())
}

func TestComputePriorityReordersWithinDueDate(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	seedLease(t, db, ledger.Lease{
		TenantID:  "M001",
		Since:     day(2026, time.March, 1),
		RentCents: 85000,
		NKCents:   20000,
		DueDay:    3,
	})
	seedPayment(t, db, "M001", "3000", day(2026, time.March, 5), 90000)

	rows, err := svc.Compute(ctx, day(2026, time.March, 31), day(2026, time.March, 1), ledger.PriorityNKFirst)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// the advance is consumed first, leaving rent short
	require.Len(t, rows[0].Open, 1)
	require.Equal(t, ledger.KindRent, rows[0].Open[0].Kind)
	require.Equal(t, int64(15000), rows[0].Open[0].OpenCents)
}

func TestComputeSettledTenantProducesNoRow(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	seedLease(t, db, ledger.Lease{
		TenantID:  "M001",
		Since:     day(2026, time.March, 1),
		RentCents: 85000,
		DueDay:    1,
	})
	seedPayment(t, db, "M001", "3000", day(2026, time.March, 1), 85000)

	rows, err := svc.Compute(ctx, day(2026, time.March, 31), day(2026, time.March, 1), ledger.PriorityOldest)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestComputeBucketsAcrossMonths(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	seedLease(t, db, ledger.Lease{
		TenantID:  "M001",
		Since:     day(2026, time.January, 1),
		RentCents: 85000,
		DueDay:    1,
	})
	// nothing paid: Jan, Feb, Mar rents all open at end of March
	asOf := day(2026, time.March, 31)

	rows, err := svc.Compute(ctx, asOf, day(2026, time.January, 1), ledger.PriorityOldest)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	b := rows[0].Buckets
	// Jan 1 is 89 days before Mar 31, Feb 1 is 58, Mar 1 is 30
	require.Equal(t, int64(85000), b.B0to30)
	require.Equal(t, int64(85000), b.B31to60)
	require.Equal(t, int64(85000), b.B61to90)
	require.Zero(t, b.B90Plus)
	require.Equal(t, int64(255000), b.Total())
}

func TestComputeIncludesSettlementCharges(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	seedSettlement(t, db, "M001", day(2026, time.February, 15), 32050)

	rows, err := svc.Compute(ctx, day(2026, time.March, 31), day(2026, time.January, 1), ledger.PriorityOldest)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, ledger.KindSettlement, rows[0].Open[0].Kind)
	require.Equal(t, int64(32050), rows[0].Buckets.B31to60)
}

func TestComputeIgnoresFutureAndForeignPayments(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	seedTenant(t, db, "M002", "Schmidt")
	seedLease(t, db, ledger.Lease{
		TenantID:  "M001",
		Since:     day(2026, time.March, 1),
		RentCents: 85000,
		DueDay:    1,
	})
	asOf := day(2026, time.March, 31)
	// after the cut-off
	seedPayment(t, db, "M001", "3000", day(2026, time.April, 2), 85000)
	// other tenant
	seedPayment(t, db, "M002", "3000", day(2026, time.March, 2), 85000)
	// negative flow on the tenant's account is not a payment
	seedPayment(t, db, "M001", "3000", day(2026, time.March, 3), -5000)

	rows, err := svc.Compute(ctx, asOf, day(2026, time.March, 1), ledger.PriorityOldest)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "M001", rows[0].Tenant.ID)
	require.Equal(t, int64(85000), rows[0].Buckets.Total())
}

func TestSettlementStatusesPoolInDueOrder(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	seedSettlement(t, db, "M001", day(2025, time.June, 30), 30000)
	seedSettlement(t, db, "M001", day(2026, time.June, 30), 25000)
	seedPayment(t, db, "M001", "3020", day(2025, time.August, 1), 40000)

	out, err := svc.SettlementStatuses(ctx, "M001", day(2026, time.December, 31))
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Equal(t, int64(30000), out[0].PaidCents)
	require.Zero(t, out[0].OpenCents)
	require.Equal(t, int64(10000), out[1].PaidCents)
	require.Equal(t, int64(15000), out[1].OpenCents)
}

func TestSettlementStatusesCreditFeedsPool(t *testing.T) {
	svc, db := newAgingService(t)
	ctx := context.Background()

	seedTenant(t, db, "M001", "Müller")
	// refund owed to the tenant, then a charge the refund offsets
	seedSettlement(t, db, "M001", day(2025, time.June, 30), -12000)
	seedSettlement(t, db, "M001", day(2026, time.June, 30), 25000)

	out, err := svc.SettlementStatuses(ctx, "M001", day(2026, time.December, 31))
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.Zero(t, out[0].PaidCents)
	require.Zero(t, out[0].OpenCents)
	require.Equal(t, int64(12000), out[1].PaidCents)
	require.Equal(t, int64(13000), out[1].OpenCents)
}
