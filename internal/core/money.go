// Package core provides the budgeting domain model.
//
// This file contains the monetary value objects: Currency and Money. Amounts
// are kept as int64 minor units and must always land on a whole major unit
// (a multiple of 100), zero included.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// MinorUnitStep is the granularity every Money amount must respect.
const MinorUnitStep = 100

// Currency is an ISO-4217 currency code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	PLN Currency = "PLN"
)

// ParseCurrency validates an ISO-4217 code, case-insensitively.
func ParseCurrency(code string) (Currency, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return Currency(unit.String()), nil
}

func (c Currency) String() string {
	return string(c)
}

// Money is an amount of a single currency in minor units.
type Money struct {
	amount   int64
	currency Currency
}

// NewMoney builds Money, rejecting amounts that are not whole major units.
func NewMoney(amount int64, cur Currency) (Money, error) {
	if amount != 0 && amount%MinorUnitStep != 0 {
		return Money{}, fmt.Errorf("%w: %d is not a multiple of %d", ErrInvalidMonetaryValue, amount, MinorUnitStep)
	}
	return Money{amount: amount, currency: cur}, nil
}

// ZeroMoney returns a zero amount of the given currency.
func ZeroMoney(cur Currency) Money {
	return Money{currency: cur}
}

// ParseMoney converts a decimal string in major units to Money.
//
// Both "1200" and "1200.00" are accepted; fractional major units are not
// representable and fail with ErrInvalidMonetaryValue.
//
// Examples:
//
//	ParseMoney("300", USD)    -> 30000 USD
//	ParseMoney("300.00", USD) -> 30000 USD
//	ParseMoney("300.50", USD) -> ErrInvalidMonetaryValue
func ParseMoney(s string, cur Currency) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMonetaryValue, s)
	}
	minor := d.Mul(decimal.NewFromInt(MinorUnitStep))
	if !minor.IsInteger() || !minor.Equal(decimal.NewFromInt(minor.IntPart())) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMonetaryValue, s)
	}
	return NewMoney(minor.IntPart(), cur)
}

// Amount returns the amount in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() Currency {
	return m.currency
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

// Add returns m + other. Both operands must share the currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, fmt.Errorf("%w: %d + %d", ErrMonetaryOverflow, m.amount, other.amount)
	}
	return NewMoney(sum, m.currency)
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	diff := m.amount - other.amount
	if (other.amount > 0 && diff > m.amount) || (other.amount < 0 && diff < m.amount) {
		return Money{}, fmt.Errorf("%w: %d - %d", ErrMonetaryOverflow, m.amount, other.amount)
	}
	return NewMoney(diff, m.currency)
}

// Compare returns -1, 0 or +1 like cmp.Compare.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	switch {
	case m.amount < other.amount:
		return -1, nil
	case m.amount > other.amount:
		return 1, nil
	}
	return 0, nil
}

// Decimal returns the amount in major units for display.
// Use Amount for calculations.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2) + " " + string(m.currency)
}
