package ledger

import (
	"regexp"
	"strings"
	"time"
)

// Sign filters a rule to incoming or outgoing bank lines.
type Sign string

const (
	SignAny Sign = "any"
	SignIn  Sign = "in"
	SignOut Sign = "out"
)

// BankLine is one imported bank statement line.
type BankLine struct {
	ID          string
	OpDate      time.Time
	AmountCents int64
	Description string
}

// Split is one line of a bank line's allocation to an account, optionally
// attributed to a tenant.
type Split struct {
	ID          string
	BankID      string
	Account     string
	TenantID    *string
	AmountCents int64
	Note        string
}

// PartKind discriminates the three allocation part variants.
type PartKind string

const (
	PartFixed     PartKind = "fixed"
	PartPercent   PartKind = "percent"
	PartRemainder PartKind = "remainder"
)

// RulePart is one component of a rule's allocation template. A fixed part
// carries ValueCents; a percent part carries ValuePercent; a remainder part
// carries neither.
type RulePart struct {
	ID           string
	RuleID       string
	Account      string
	TenantID     *string
	Kind         PartKind
	ValueCents   int64
	ValuePercent float64
	Note         string
}

// Rule is a reusable allocation template matched against bank lines.
type Rule struct {
	ID         string
	Name       string
	MatchLike  string // literal substring, case-sensitive; may carry % wrappers
	MatchRegex string // case-insensitive regular expression
	MinCents   *int64
	MaxCents   *int64
	Sign       Sign
	Priority   int
	Active     bool
	Parts      []RulePart
}

// Matches reports whether the rule qualifies for the bank line. All set
// conditions are ANDed; a rule with no conditions matches everything.
// A malformed regex never matches.
func (r Rule) Matches(b BankLine) bool {
	if !r.Active {
		return false
	}
	if like := strings.TrimSpace(r.MatchLike); like != "" {
		if !strings.Contains(b.Description, strings.Trim(like, "%")) {
			return false
		}
	}
	if r.MatchRegex != "" {
		re, err := regexp.Compile("(?i)" + r.MatchRegex)
		if err != nil || !re.MatchString(b.Description) {
			return false
		}
	}
	if r.MinCents != nil && b.AmountCents < *r.MinCents {
		return false
	}
	if r.MaxCents != nil && b.AmountCents > *r.MaxCents {
		return false
	}
	if r.Sign != SignAny && r.Sign != "" {
		switch {
		case b.AmountCents > 0 && r.Sign != SignIn:
			return false
		case b.AmountCents < 0 && r.Sign != SignOut:
			return false
		case b.AmountCents == 0:
			return false
		}
	}
	return true
}
