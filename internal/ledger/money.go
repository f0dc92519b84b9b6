package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts human money input to integer cents. It accepts plain
// decimal forms ("850.00", "-12.5") and German statement forms where the
// comma is the decimal mark and dots group thousands ("1.234,56", "850,00").
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, fmt.Errorf("parse amount: empty input")
	}
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Contains(s, ","):
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// FormatCents renders cents as a two-decimal string, e.g. 85000 -> "850.00".
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
