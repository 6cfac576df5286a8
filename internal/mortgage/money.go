package mortgage

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code accepted by the mortgage API.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

var supportedCurrencies = map[Currency]struct{}{
	CurrencyEUR: {},
	CurrencyUSD: {},
	CurrencyGBP: {},
}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := supportedCurrencies[c]; !ok {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

func (c Currency) String() string {
	return string(c)
}

// Amount is a monetary value in a single currency. Values are exact decimals;
// no conversion between currencies is ever performed.
type Amount struct {
	Value    decimal.Decimal
	Currency Currency
}

// NewAmount builds an Amount from a decimal value.
func NewAmount(value decimal.Decimal, currency Currency) Amount {
	return Amount{Value: value, Currency: currency}
}

// MustAmount parses a decimal string and panics on failure. Intended for tests
// and package-level fixtures only.
func MustAmount(value string, currency Currency) Amount {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return Amount{Value: d, Currency: currency}
}

// String formats the amount as "<value> <currency>" with two decimals.
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Value.StringFixed(2), a.Currency)
}
