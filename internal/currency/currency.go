// Package currency validates ISO 4217 codes and maps them to display symbols.
package currency

import (
	"errors"
	"fmt"

	"golang.org/x/text/currency"
)

// ErrUnknown is returned for codes that are not ISO 4217 currencies.
var ErrUnknown = errors.New("unknown currency code")

// Normalize validates code and returns its canonical upper-case form.
func Normalize(code string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknown, code)
	}
	// ParseISO maps XXX ("no currency") to the zero unit.
	if unit == (currency.Unit{}) {
		return "", fmt.Errorf("%w: %q", ErrUnknown, code)
	}
	return unit.String(), nil
}

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "CHF",
	"SGD": "S$",
	"AED": "د.إ",
}

// Symbol returns the display symbol for code, or the code itself when no
// symbol is known.
func Symbol(code string) string {
	canonical, err := Normalize(code)
	if err != nil {
		return code
	}
	if s, ok := symbols[canonical]; ok {
		return s
	}
	return canonical
}
