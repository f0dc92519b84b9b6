package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want int64
	}{
		{"850.00", 85000},
		{"850,00", 85000},
		{"1.234,56", 123456},
		{"1 234,56", 123456},
		{"-12.5", -1250},
		{"-120,00", -12000},
		{"0", 0},
		{"1050", 105000},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseAmount("")
	require.Error(t, err)
	_, err = ParseAmount("abc")
	require.Error(t, err)
}

func TestFormatCents(t *testing.T) {
	t.Parallel()
	require.Equal(t, "850.00", FormatCents(85000))
	require.Equal(t, "-0.05", FormatCents(-5))
	require.Equal(t, "0.00", FormatCents(0))
}
