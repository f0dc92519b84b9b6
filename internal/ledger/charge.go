package ledger

import "time"

// ChargeKind labels what a charge is for. Settlement charges keep the
// original label "nka" (Nebenkostenabrechnung, the annual operating-cost
// true-up).
type ChargeKind string

const (
	KindRent       ChargeKind = "rent"
	KindNK         ChargeKind = "nk"
	KindSettlement ChargeKind = "nka"
)

// Charge is one obligation owed by a tenant, recurring or one-off, with an
// open balance tracked during payment application. Charges are rebuilt from
// leases and manual charges on every aging run and never persisted.
type Charge struct {
	TenantID    string
	Kind        ChargeKind
	DueDate     time.Time
	AmountCents int64
	OpenCents   int64
}

// Lease is a tenant's standing monthly obligation, effective from Since
// until Until (open-ended when nil).
type Lease struct {
	TenantID       string
	Since          time.Time
	Until          *time.Time
	RentCents      int64
	NKCents        int64
	DueDay         int
	ToleranceCents int64
	GraceDays      int
}

// ActiveIn reports whether the lease is active at any point in [first, last].
func (l Lease) ActiveIn(first, last time.Time) bool {
	if l.Since.After(last) {
		return false
	}
	return l.Until == nil || !l.Until.Before(first)
}

// MonthBounds returns the first and last day of the month containing d.
func MonthBounds(d time.Time) (first, last time.Time) {
	first = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// AddMonths shifts d by n calendar months, clamping the day to the target
// month's length (2025-01-31 + 1 month = 2025-02-28).
func AddMonths(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	_, last := MonthBounds(first)
	day := d.Day()
	if day > last.Day() {
		day = last.Day()
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween lists the first-of-month dates from the month of start
// through the month of end, inclusive.
func MonthsBetween(start, end time.Time) []time.Time {
	cur, _ := MonthBounds(start)
	endMonth, _ := MonthBounds(end)
	var out []time.Time
	for !cur.After(endMonth) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// DueDate places dueDay in the month containing d, clamped to the last day
// of that month.
func DueDate(d time.Time, dueDay int) time.Time {
	_, last := MonthBounds(d)
	if dueDay > last.Day() {
		dueDay = last.Day()
	}
	return time.Date(d.Year(), d.Month(), dueDay, 0, 0, 0, 0, time.UTC)
}

// MonthlyCharges emits the lease's rent and operating-cost advance charges
// for the month containing d, when the lease is active in that month.
// Zero-valued fields emit no charge.
func (l Lease) MonthlyCharges(d time.Time) []Charge {
	first, last := MonthBounds(d)
	if !l.ActiveIn(first, last) {
		return nil
	}
	due := DueDate(d, l.DueDay)
	var out []Charge
	if l.RentCents != 0 {
		out = append(out, Charge{TenantID: l.TenantID, Kind: KindRent, DueDate: due, AmountCents: l.RentCents, OpenCents: l.RentCents})
	}
	if l.NKCents != 0 {
		out = append(out, Charge{TenantID: l.TenantID, Kind: KindNK, DueDate: due, AmountCents: l.NKCents, OpenCents: l.NKCents})
	}
	return out
}
