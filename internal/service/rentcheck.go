package service

import (
	"context"
	"time"

	"rentledger/internal/database/repository"
	"rentledger/internal/ledger"
)

// PayStatus classifies paid-versus-due for one lease component.
type PayStatus string

const (
	StatusOK      PayStatus = "ok"
	StatusPartial PayStatus = "partial"
	StatusMissing PayStatus = "missing"
	StatusOver    PayStatus = "over"
)

// RentCheckRow is one lease's paid-versus-due result for a month.
type RentCheckRow struct {
	TenantID     string
	RentDueCents int64
	RentPaid     int64
	NKDueCents   int64
	NKPaid       int64
	RentStatus   PayStatus
	NKStatus     PayStatus
	Overall      PayStatus
	Late         *bool // nil when rent was not fully paid in the month
}

// RentCheckService compares each active lease's obligations against the
// splits booked in a month.
type RentCheckService struct {
	Leases   *repository.LeaseRepo
	Splits   *repository.SplitRepo
	Accounts AccountSets
}

// Check evaluates all leases active in the month containing month.
func (s *RentCheckService) Check(ctx context.Context, month time.Time) ([]RentCheckRow, error) {
	first, last := ledger.MonthBounds(month)
	leases, err := s.Leases.ActiveIn(ctx, first, last)
	if err != nil {
		return nil, err
	}

	var out []RentCheckRow
	for _, l := range leases {
		rentFlows, err := s.Splits.Flows(ctx, l.TenantID, s.Accounts.Rent, first, last)
		if err != nil {
			return nil, err
		}
		nkFlows, err := s.Splits.Flows(ctx, l.TenantID, s.Accounts.NK, first, last)
		if err != nil {
			return nil, err
		}

		row := RentCheckRow{
			TenantID:     l.TenantID,
			RentDueCents: l.RentCents,
			RentPaid:     sumFlows(rentFlows),
			NKDueCents:   l.NKCents,
			NKPaid:       sumFlows(nkFlows),
		}
		row.RentStatus = statusOf(row.RentPaid, row.RentDueCents, l.ToleranceCents)
		row.NKStatus = statusOf(row.NKPaid, row.NKDueCents, l.ToleranceCents)
		row.Overall = overallStatus(row.RentStatus, row.NKStatus)

		if row.RentStatus == StatusOK {
			due := ledger.DueDate(month, l.DueDay)
			if paidOn := coveredOn(rentFlows, l.RentCents-l.ToleranceCents); paidOn != nil {
				late := paidOn.After(due.AddDate(0, 0, l.GraceDays))
				row.Late = &late
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func sumFlows(flows []ledger.Payment) int64 {
	var total int64
	for _, f := range flows {
		total += f.AmountCents
	}
	return total
}

// coveredOn returns the date the cumulative flows first reached target, or
// nil when they never did.
func coveredOn(flows []ledger.Payment, target int64) *time.Time {
	var run int64
	for _, f := range flows {
		run += f.AmountCents
		if run >= target {
			d := f.Date
			return &d
		}
	}
	return nil
}

func statusOf(paid, due, tolerance int64) PayStatus {
	diff := paid - due
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= tolerance:
		return StatusOK
	case paid > 0 && paid < due-tolerance:
		return StatusPartial
	case paid > due+tolerance:
		return StatusOver
	default:
		return StatusMissing
	}
}

func overallStatus(rent, nk PayStatus) PayStatus {
	switch {
	case rent == StatusOK && nk == StatusOK:
		return StatusOK
	case rent == StatusPartial || nk == StatusPartial,
		(rent == StatusOK || nk == StatusOK) && (rent == StatusMissing || nk == StatusMissing):
		return StatusPartial
	case rent == StatusMissing && nk == StatusMissing:
		return StatusMissing
	default:
		return StatusOver
	}
}
