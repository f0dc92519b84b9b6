package ledger

import (
	"fmt"
	"sort"
	"time"
)

// Priority selects the order in which payments are applied to open charges.
type Priority string

const (
	PriorityOldest          Priority = "oldest"
	PriorityRentFirst       Priority = "rent_first"
	PriorityNKFirst         Priority = "nk_first"
	PrioritySettlementFirst Priority = "nka_first"
)

// kindRanks maps each non-oldest priority mode to its kind ordering. A new
// mode is one more table entry. Kinds missing from a row rank last.
var kindRanks = map[Priority]map[ChargeKind]int{
	PriorityRentFirst:       {KindRent: 0, KindNK: 1, KindSettlement: 2},
	PriorityNKFirst:         {KindNK: 0, KindRent: 1, KindSettlement: 2},
	PrioritySettlementFirst: {KindSettlement: 0, KindRent: 1, KindNK: 2},
}

// ParsePriority validates a priority mode name.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityOldest, PriorityRentFirst, PriorityNKFirst, PrioritySettlementFirst:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority mode %q", s)
}

func rankOf(p Priority, k ChargeKind) int {
	ranks, ok := kindRanks[p]
	if !ok {
		return 0 // oldest: due date only
	}
	r, ok := ranks[k]
	if !ok {
		return len(ranks)
	}
	return r
}

// Payment is a dated positive amount derived from stored splits.
type Payment struct {
	Date        time.Time
	AmountCents int64
}

// ApplyPayments applies payments to charges greedily in priority order and
// returns the surviving charges with updated open amounts. The inputs are
// not mutated.
//
// Charges due after asOf or with nothing open are dropped. Payments dated
// after asOf are ignored; the rest run in date order (ties keep input
// order) and each walks the sorted charge list once, paying down open
// amounts until exhausted. A payment's leftover is discarded: the aging is
// recomputed from scratch per call, never carried forward.
func ApplyPayments(charges []Charge, payments []Payment, asOf time.Time, priority Priority) []Charge {
	eligible := make([]Charge, 0, len(charges))
	for _, c := range charges {
		if c.DueDate.After(asOf) || c.OpenCents <= 0 {
			continue
		}
		eligible = append(eligible, c)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		ri, rj := rankOf(priority, eligible[i].Kind), rankOf(priority, eligible[j].Kind)
		if ri != rj {
			return ri < rj
		}
		return eligible[i].DueDate.Before(eligible[j].DueDate)
	})

	ordered := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if !p.Date.After(asOf) {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	for _, p := range ordered {
		remaining := p.AmountCents
		for i := range eligible {
			if remaining <= 0 {
				break
			}
			if eligible[i].OpenCents <= 0 {
				continue
			}
			take := eligible[i].OpenCents
			if remaining < take {
				take = remaining
			}
			eligible[i].OpenCents -= take
			remaining -= take
		}
	}
	return eligible
}

// Aging bucket labels, oldest last.
const (
	Bucket0to30  = "0-30"
	Bucket31to60 = "31-60"
	Bucket61to90 = "61-90"
	Bucket90Plus = "90+"
)

// BucketFor classifies days overdue with inclusive upper bounds. Zero or
// negative days still land in the first bucket.
func BucketFor(daysOverdue int) string {
	switch {
	case daysOverdue <= 30:
		return Bucket0to30
	case daysOverdue <= 60:
		return Bucket31to60
	case daysOverdue <= 90:
		return Bucket61to90
	default:
		return Bucket90Plus
	}
}

// DaysOverdue counts whole days from due to asOf.
func DaysOverdue(due, asOf time.Time) int {
	return int(asOf.Sub(due).Hours() / 24)
}

// AgingBuckets accumulates open cents per overdue bucket.
type AgingBuckets struct {
	B0to30  int64
	B31to60 int64
	B61to90 int64
	B90Plus int64
}

// Add books cents into the bucket for daysOverdue.
func (b *AgingBuckets) Add(daysOverdue int, cents int64) {
	switch BucketFor(daysOverdue) {
	case Bucket0to30:
		b.B0to30 += cents
	case Bucket31to60:
		b.B31to60 += cents
	case Bucket61to90:
		b.B61to90 += cents
	default:
		b.B90Plus += cents
	}
}

// Total sums all buckets.
func (b AgingBuckets) Total() int64 {
	return b.B0to30 + b.B31to60 + b.B61to90 + b.B90Plus
}
