package domain

import (
	"strings"

	"golang.org/x/text/currency"
)

// Currency is an ISO 4217 code. Only USD is accepted today.
type Currency string

const CurrencyUSD Currency = "USD"

// ParseCurrency normalizes raw and rejects anything but a supported unit.
// An empty value defaults to USD.
func ParseCurrency(raw string) (Currency, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CurrencyUSD, nil
	}
	unit, err := currency.ParseISO(strings.ToUpper(raw))
	if err != nil {
		return "", ErrBadCurrency
	}
	if unit != currency.USD {
		return "", ErrBadCurrency
	}
	return CurrencyUSD, nil
}
