package ledger

import "time"

// Account kinds, informational only.
const (
	AccountAsset     = "asset"
	AccountLiability = "liability"
	AccountIncome    = "income"
	AccountExpense   = "expense"
	AccountOther     = "other"
)

// Account is one ledger account splits are booked against.
type Account struct {
	Number string
	Name   string
	Kind   string
}

// Tenant is one rental party.
type Tenant struct {
	ID   string
	Name string
	Unit string
}

// ManualCharge is a non-recurring obligation, typically a settlement
// ("nka") from the annual operating-cost reconciliation. A negative amount
// is a credit.
type ManualCharge struct {
	ID          string
	TenantID    string
	Kind        ChargeKind
	DueDate     time.Time
	AmountCents int64
	IssuedDate  *time.Time
	Note        string
}

// Charge converts the manual charge into the open-item shape used by the
// aging engine.
func (m ManualCharge) Charge() Charge {
	return Charge{
		TenantID:    m.TenantID,
		Kind:        m.Kind,
		DueDate:     m.DueDate,
		AmountCents: m.AmountCents,
		OpenCents:   m.AmountCents,
	}
}
