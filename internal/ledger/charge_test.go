package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthBounds(t *testing.T) {
	t.Parallel()
	first, last := MonthBounds(day(2025, time.February, 14))
	require.Equal(t, day(2025, time.February, 1), first)
	require.Equal(t, day(2025, time.February, 28), last)

	first, last = MonthBounds(day(2024, time.February, 1))
	require.Equal(t, day(2024, time.February, 1), first)
	require.Equal(t, day(2024, time.February, 29), last)
}

func TestAddMonthsClampsDay(t *testing.T) {
	t.Parallel()
	require.Equal(t, day(2025, time.February, 28), AddMonths(day(2025, time.January, 31), 1))
	require.Equal(t, day(2024, time.August, 15), AddMonths(day(2025, time.July, 15), -11))
}

func TestMonthsBetween(t *testing.T) {
	t.Parallel()
	months := MonthsBetween(day(2024, time.November, 20), day(2025, time.February, 3))
	require.Equal(t, []time.Time{
		day(2024, time.November, 1),
		day(2024, time.December, 1),
		day(2025, time.January, 1),
		day(2025, time.February, 1),
	}, months)
}

func TestDueDateClampsToMonthEnd(t *testing.T) {
	t.Parallel()
	require.Equal(t, day(2025, time.February, 28), DueDate(day(2025, time.February, 1), 31))
	require.Equal(t, day(2025, time.July, 3), DueDate(day(2025, time.July, 20), 3))
}

func TestLeaseActiveIn(t *testing.T) {
	t.Parallel()
	until := day(2025, time.June, 30)
	l := Lease{Since: day(2025, time.March, 15), Until: &until}

	first, last := MonthBounds(day(2025, time.March, 1))
	require.True(t, l.ActiveIn(first, last), "starts mid-month")
	first, last = MonthBounds(day(2025, time.June, 1))
	require.True(t, l.ActiveIn(first, last), "ends on month end")
	first, last = MonthBounds(day(2025, time.February, 1))
	require.False(t, l.ActiveIn(first, last))
	first, last = MonthBounds(day(2025, time.July, 1))
	require.False(t, l.ActiveIn(first, last))

	open := Lease{Since: day(2025, time.March, 15)}
	first, last = MonthBounds(day(2030, time.January, 1))
	require.True(t, open.ActiveIn(first, last), "open-ended lease")
}

func TestLeaseMonthlyCharges(t *testing.T) {
	t.Parallel()
	l := Lease{TenantID: "M001", Since: day(2025, time.January, 1), RentCents: 85000, NKCents: 20000, DueDay: 3}
	charges := l.MonthlyCharges(day(2025, time.July, 1))
	require.Len(t, charges, 2)
	require.Equal(t, KindRent, charges[0].Kind)
	require.Equal(t, int64(85000), charges[0].AmountCents)
	require.Equal(t, int64(85000), charges[0].OpenCents)
	require.Equal(t, day(2025, time.July, 3), charges[0].DueDate)
	require.Equal(t, KindNK, charges[1].Kind)
	require.Equal(t, int64(20000), charges[1].AmountCents)
}

func TestLeaseMonthlyChargesZeroFieldEmitsNothing(t *testing.T) {
	t.Parallel()
	l := Lease{TenantID: "M001", Since: day(2025, time.January, 1), RentCents: 85000, NKCents: 0, DueDay: 1}
	charges := l.MonthlyCharges(day(2025, time.July, 1))
	require.Len(t, charges, 1)
	require.Equal(t, KindRent, charges[0].Kind)
}

func TestLeaseMonthlyChargesInactiveMonth(t *testing.T) {
	t.Parallel()
	l := Lease{TenantID: "M001", Since: day(2025, time.August, 1), RentCents: 85000, DueDay: 1}
	require.Empty(t, l.MonthlyCharges(day(2025, time.July, 1)))
}
