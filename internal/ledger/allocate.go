package ledger

import (
	"fmt"
	"math"
)

// percentEpsilon tolerates float noise when summing percent parts.
const percentEpsilon = 1e-6

// NoPartsError reports a rule with no allocation parts.
type NoPartsError struct {
	RuleID string
}

func (e *NoPartsError) Error() string {
	return fmt.Sprintf("rule %s has no parts", e.RuleID)
}

// PercentOverflowError reports percent parts summing past 100%.
type PercentOverflowError struct {
	RuleID string
	Sum    float64
}

func (e *PercentOverflowError) Error() string {
	return fmt.Sprintf("rule %s: percent parts sum to %.4f%% > 100%%", e.RuleID, e.Sum)
}

// MultipleRemainderError reports more than one remainder part on a rule.
type MultipleRemainderError struct {
	RuleID string
	Count  int
}

func (e *MultipleRemainderError) Error() string {
	return fmt.Sprintf("rule %s declares %d remainder parts, at most one allowed", e.RuleID, e.Count)
}

// BalanceMismatchError reports computed splits that do not sum to the bank
// amount exactly.
type BalanceMismatchError struct {
	RuleID      string
	SplitCents  int64
	AmountCents int64
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("rule %s: split sum %s != bank amount %s (missing remainder part?)",
		e.RuleID, FormatCents(e.SplitCents), FormatCents(e.AmountCents))
}

// Allocate computes the splits a rule produces for a bank line. It performs
// no writes; callers persist the result atomically or not at all.
//
// Fixed parts apply their magnitude with the bank line's sign, never their
// own. Percent amounts are rounded half away from zero (math.Round on the
// cent product), so 0.5 cents always rounds up in magnitude. A single
// remainder part absorbs whatever is left; without one, the computed splits
// must balance exactly or the whole allocation is rejected.
func Allocate(r Rule, b BankLine) ([]Split, error) {
	if len(r.Parts) == 0 {
		return nil, &NoPartsError{RuleID: r.ID}
	}

	remaining := b.AmountCents
	splits := make([]Split, 0, len(r.Parts))
	add := func(p RulePart, cents int64) {
		note := p.Note
		if note == "" {
			note = fmt.Sprintf("auto: rule %s", r.Name)
		}
		splits = append(splits, Split{
			BankID:      b.ID,
			Account:     p.Account,
			TenantID:    p.TenantID,
			AmountCents: cents,
			Note:        note,
		})
	}

	for _, p := range r.Parts {
		if p.Kind != PartFixed {
			continue
		}
		amt := p.ValueCents
		if (b.AmountCents > 0 && amt < 0) || (b.AmountCents < 0 && amt > 0) {
			amt = -amt
		}
		remaining -= amt
		add(p, amt)
	}

	var percentSum float64
	for _, p := range r.Parts {
		if p.Kind == PartPercent {
			percentSum += p.ValuePercent
		}
	}
	if percentSum > 100+percentEpsilon {
		return nil, &PercentOverflowError{RuleID: r.ID, Sum: percentSum}
	}
	for _, p := range r.Parts {
		if p.Kind != PartPercent {
			continue
		}
		cents := int64(math.Round(float64(b.AmountCents) * p.ValuePercent / 100.0))
		remaining -= cents
		add(p, cents)
	}

	var remainderParts []RulePart
	for _, p := range r.Parts {
		if p.Kind == PartRemainder {
			remainderParts = append(remainderParts, p)
		}
	}
	if len(remainderParts) > 1 {
		return nil, &MultipleRemainderError{RuleID: r.ID, Count: len(remainderParts)}
	}
	if len(remainderParts) == 1 {
		add(remainderParts[0], remaining)
		remaining = 0
	}

	var total int64
	for _, s := range splits {
		total += s.AmountCents
	}
	if total != b.AmountCents {
		return nil, &BalanceMismatchError{RuleID: r.ID, SplitCents: total, AmountCents: b.AmountCents}
	}
	return splits, nil
}
