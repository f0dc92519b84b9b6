package service

import (
	"context"
	"time"

	"rentledger/internal/database/repository"
	"rentledger/internal/ledger"
)

var zeroTime time.Time

// AccountSets maps income account numbers to the payment kinds they carry.
type AccountSets struct {
	Rent       []string
	NK         []string
	Settlement []string
}

// All returns the union of all payment account sets.
func (a AccountSets) All() []string {
	out := make([]string, 0, len(a.Rent)+len(a.NK)+len(a.Settlement))
	out = append(out, a.Rent...)
	out = append(out, a.NK...)
	return append(out, a.Settlement...)
}

// AgingService computes open items per tenant at a cut-off date.
type AgingService struct {
	Tenants  *repository.TenantRepo
	Leases   *repository.LeaseRepo
	Charges  *repository.ManualChargeRepo
	Splits   *repository.SplitRepo
	Accounts AccountSets
}

// TenantAging is one tenant's open items bucketed by overdue age.
type TenantAging struct {
	Tenant  ledger.Tenant
	Buckets ledger.AgingBuckets
	Open    []ledger.Charge // positive open charges, for detail output
}

// Compute builds each tenant's charge set from leases and settlement
// charges over [fromMonth, asOf], applies the tenant's payments under the
// given priority, and buckets what stays open. A zero fromMonth defaults to
// twelve months before asOf. Tenants with nothing open produce no row.
//
// Tenants are independent: each one's charges and payments come from its
// own reads and nothing here mutates the store.
func (s *AgingService) Compute(ctx context.Context, asOf time.Time, fromMonth time.Time, priority ledger.Priority) ([]TenantAging, error) {
	if fromMonth.IsZero() {
		fromMonth = ledger.AddMonths(asOf, -11)
	}
	rangeFirst, _ := ledger.MonthBounds(fromMonth)
	_, rangeLast := ledger.MonthBounds(asOf)
	months := ledger.MonthsBetween(rangeFirst, asOf)

	tenants, err := s.Tenants.List(ctx)
	if err != nil {
		return nil, err
	}
	leases, err := s.Leases.ActiveIn(ctx, rangeFirst, rangeLast)
	if err != nil {
		return nil, err
	}

	var out []TenantAging
	for _, t := range tenants {
		charges, err := s.tenantCharges(ctx, t.ID, months, rangeFirst, rangeLast, leases)
		if err != nil {
			return nil, err
		}
		if len(charges) == 0 {
			continue
		}

		flows, err := s.Splits.Flows(ctx, t.ID, s.Accounts.All(), rangeFirst, asOf)
		if err != nil {
			return nil, err
		}
		payments := make([]ledger.Payment, 0, len(flows))
		for _, f := range flows {
			if f.AmountCents > 0 {
				payments = append(payments, f)
			}
		}

		open := ledger.ApplyPayments(charges, payments, asOf, priority)

		row := TenantAging{Tenant: t}
		for _, c := range open {
			if c.OpenCents <= 0 {
				continue
			}
			row.Buckets.Add(ledger.DaysOverdue(c.DueDate, asOf), c.OpenCents)
			row.Open = append(row.Open, c)
		}
		if row.Buckets.Total() > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *AgingService) tenantCharges(ctx context.Context, tenantID string, months []time.Time, from, to time.Time, leases []ledger.Lease) ([]ledger.Charge, error) {
	var charges []ledger.Charge
	for _, l := range leases {
		if l.TenantID != tenantID {
			continue
		}
		for _, m := range months {
			charges = append(charges, l.MonthlyCharges(m)...)
		}
	}
	manual, err := s.Charges.ListByTenant(ctx, tenantID, []ledger.ChargeKind{ledger.KindSettlement}, from, to)
	if err != nil {
		return nil, err
	}
	for _, m := range manual {
		charges = append(charges, m.Charge())
	}
	return charges, nil
}

// SettlementStatus is one settlement charge with its paid and open share
// under sequential application of the tenant's settlement payments.
type SettlementStatus struct {
	Charge    ledger.ManualCharge
	PaidCents int64
	OpenCents int64
}

// SettlementStatuses lists the tenant's settlement charges with per-charge
// paid/open amounts. Payments on the settlement accounts up to asOf form a
// pool consumed by charges in due-date order; credit charges (negative
// amounts) add to the pool instead of being open.
func (s *AgingService) SettlementStatuses(ctx context.Context, tenantID string, asOf time.Time) ([]SettlementStatus, error) {
	charges, err := s.Charges.ListByTenant(ctx, tenantID, []ledger.ChargeKind{ledger.KindSettlement},
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), asOf.AddDate(100, 0, 0))
	if err != nil {
		return nil, err
	}
	flows, err := s.Splits.Flows(ctx, tenantID, s.Accounts.Settlement,
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), asOf)
	if err != nil {
		return nil, err
	}
	var pool int64
	for _, f := range flows {
		if f.AmountCents > 0 {
			pool += f.AmountCents
		}
	}

	out := make([]SettlementStatus, 0, len(charges))
	for _, c := range charges {
		st := SettlementStatus{Charge: c}
		if c.AmountCents >= 0 {
			paid := c.AmountCents
			if pool < paid {
				paid = pool
			}
			if paid < 0 {
				paid = 0
			}
			st.PaidCents = paid
			st.OpenCents = c.AmountCents - paid
			pool -= paid
		} else {
			// credit: feeds the pool, never open
			pool += -c.AmountCents
		}
		out = append(out, st)
	}
	return out, nil
}
