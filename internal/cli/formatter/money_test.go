package formatter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"BRL", "R$ 1.234,50"},
		{"usd", "US$ 1,234.50"},
		{"EUR", "€ 1.234,50"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			m, err := NewMoney(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Format(decimal.RequireFromString("1234.5")))
		})
	}
}

func TestMoney_FormatKeepsLargeAmountsExact(t *testing.T) {
	m, err := NewMoney("BRL")
	require.NoError(t, err)

	assert.Equal(t, "R$ 12.345.678.901.234.567,89", m.Format(decimal.RequireFromString("12345678901234567.89")))
	assert.Equal(t, "R$ 90.071.992.547.409,93", m.Format(decimal.RequireFromString("90071992547409.93")))
}

func TestMoney_FormatSmallAndNegative(t *testing.T) {
	m, err := NewMoney("USD")
	require.NoError(t, err)

	assert.Equal(t, "US$ 0.00", m.Format(decimal.Zero))
	assert.Equal(t, "US$ 999.99", m.Format(decimal.RequireFromString("999.99")))
	assert.Equal(t, "US$ 1,000.01", m.Format(decimal.RequireFromString("1000.005")))
	assert.Equal(t, "US$ -1,234.50", m.Format(decimal.RequireFromString("-1234.5")))
}

func TestMoney_UnknownCurrency(t *testing.T) {
	_, err := NewMoney("ZZZ")
	assert.Error(t, err)
}

func TestMoney_Signed(t *testing.T) {
	m, err := NewMoney("BRL")
	require.NoError(t, err)
	assert.Equal(t, "+R$ 10,00", stripANSI(m.Signed(decimal.NewFromInt(-10))))
	assert.Equal(t, "-R$ 10,00", stripANSI(m.Signed(decimal.NewFromInt(10))))
	assert.Equal(t, "BRL", m.Code())
}

func TestMoney_ZeroValueFallsBack(t *testing.T) {
	assert.Equal(t, "3.50", Money{}.Format(decimal.RequireFromString("3.5")))
}
