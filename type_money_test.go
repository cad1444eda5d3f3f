package papertrade

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "150", want: "150"},
		{in: "$150.00", want: "150"},
		{in: "$1,500.25", want: "1500.25"},
		{in: " 1 000 ", want: "1000"},
		{in: "0.000001", want: "0.000001"},
		{in: "-3", want: "-3"},
		{in: "", wantErr: true},
		{in: "$", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Decimal().String())
			assert.Equal(t, DefaultCurrency, got.Currency())
		})
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "$1,500.00", USD(1500).String())
	assert.Equal(t, "$153.33", USD(decimal.RequireFromString("153.3333333333333333")).String())
	assert.Equal(t, "$0.00", Money{}.String())
	assert.Equal(t, "+$10.00", USD(10).SignedString())
	assert.Equal(t, "-$10.00", USD(-10).SignedString())
	assert.Equal(t, "-", USD(0).SignedString())
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	m := USD(0)
	for range 1000 {
		m = m.Add(USD(0.1))
	}
	assert.Equal(t, "100", m.Decimal().String())
	assert.True(t, USD(0.3).Sub(USD(0.1)).Equal(USD(0.2)))
	assert.True(t, USD(19.99).Mul(Q(3)).Equal(USD(59.97)))
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	assert.Panics(t, func() { USD(1).Add(M(1, "EUR")) })
	// the zero value takes the currency of the other operand.
	assert.Equal(t, "EUR", Money{}.Add(M(1, "EUR")).Currency())
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(USD(decimal.RequireFromString("153.3333333333333333")))
	require.NoError(t, err)
	assert.Equal(t, "153.3333333333333333", string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"1500.5"`), &m))
	assert.True(t, m.Equal(USD(1500.5)))
	assert.Equal(t, DefaultCurrency, m.Currency())
}

func TestQuantityIsWhole(t *testing.T) {
	assert.True(t, Q(1).IsWhole())
	assert.True(t, Q(100).IsWhole())
	assert.False(t, Q(0).IsWhole())
	assert.False(t, Q(-5).IsWhole())
	assert.False(t, Q(1.5).IsWhole())
}
