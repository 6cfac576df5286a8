package mortgage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    Currency
		wantErr bool
	}{
		{in: "EUR", want: CurrencyEUR},
		{in: " usd ", want: CurrencyUSD},
		{in: "gbp", want: CurrencyGBP},
		{in: "JPY", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCurrency(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported currency")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount(t *testing.T) {
	a := MustAmount("100.5", CurrencyEUR)

	assert.Equal(t, "100.50 EUR", a.String())
	assert.True(t, a.Value.Equal(NewAmount(decimal.RequireFromString("100.50"), CurrencyEUR).Value))
	assert.Panics(t, func() { MustAmount("abc", CurrencyEUR) })
}
