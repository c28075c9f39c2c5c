package core

import (
	"errors"
	"testing"
)

func TestNewMoney(t *testing.T) {
	cases := []struct {
		amount int64
		ok     bool
	}{
		{0, true},
		{100, true},
		{30000, true},
		{-200, true},
		{1, false},
		{99, false},
		{150, false},
		{200000001, false},
		{-101, false},
	}
	for _, tc := range cases {
		m, err := NewMoney(tc.amount, USD)
		if tc.ok {
			if err != nil || m.Amount() != tc.amount {
				t.Fatalf("%d expected ok, got %v (err=%v)", tc.amount, m, err)
			}
		} else if !errors.Is(err, ErrInvalidMonetaryValue) {
			t.Fatalf("%d expected ErrInvalidMonetaryValue, got %v", tc.amount, err)
		}
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"300", 30000, true},
		{"300.00", 30000, true},
		{" 2000 ", 200000, true},
		{"0", 0, true},
		{"300.50", 0, false},
		{"0.01", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in, EUR)
		if tc.ok {
			if err != nil || got.Amount() != tc.out || got.Currency() != EUR {
				t.Fatalf("%q expected %d, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if !errors.Is(err, ErrInvalidMonetaryValue) {
			t.Fatalf("%q expected ErrInvalidMonetaryValue, got %v", tc.in, err)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	for _, in := range []string{"USD", "usd", " pln "} {
		if _, err := ParseCurrency(in); err != nil {
			t.Errorf("ParseCurrency(%q) error = %v", in, err)
		}
	}
	if got, _ := ParseCurrency("eur"); got != EUR {
		t.Errorf("ParseCurrency(eur) = %q, want EUR", got)
	}
	if _, err := ParseCurrency("ZZZ1"); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := NewMoney(50000, USD)
	b, _ := NewMoney(20000, USD)

	sum, err := a.Add(b)
	if err != nil || sum.Amount() != 70000 || sum.Currency() != USD {
		t.Fatalf("Add() = %v, %v", sum, err)
	}
	diff, err := b.Sub(a)
	if err != nil || diff.Amount() != -30000 {
		t.Fatalf("Sub() = %v, %v", diff, err)
	}
	if cmp, _ := a.Compare(b); cmp != 1 {
		t.Errorf("Compare() = %d, want 1", cmp)
	}

	other, _ := NewMoney(100, PLN)
	if _, err := a.Add(other); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
	if _, err := a.Compare(other); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoneyOverflow(t *testing.T) {
	const near = 9223372036854775800
	hundred, _ := NewMoney(100, USD)
	minusHundred, _ := NewMoney(-100, USD)
	high, err := NewMoney(near, USD)
	if err != nil {
		t.Fatal(err)
	}
	low, err := NewMoney(-near, USD)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		op   func() (Money, error)
	}{
		{"add past max", func() (Money, error) { return high.Add(hundred) }},
		{"add past min", func() (Money, error) { return low.Add(minusHundred) }},
		{"sub past min", func() (Money, error) { return low.Sub(hundred) }},
		{"sub past max", func() (Money, error) { return high.Sub(minusHundred) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			if !errors.Is(err, ErrMonetaryOverflow) {
				t.Errorf("error = %v, want ErrMonetaryOverflow", err)
			}
			if errors.Is(err, ErrInvalidMonetaryValue) {
				t.Errorf("error = %v, must not be ErrInvalidMonetaryValue", err)
			}
			if got != (Money{}) {
				t.Errorf("result = %v, want zero Money", got)
			}
		})
	}

	// Just inside the range still works.
	if got, err := high.Sub(hundred); err != nil || got.Amount() != near-100 {
		t.Errorf("Sub() = %v, %v, want %d", got, err, int64(near-100))
	}
}

func TestMoneyString(t *testing.T) {
	m, _ := NewMoney(120000, USD)
	if got := m.String(); got != "1200.00 USD" {
		t.Errorf("String() = %q", got)
	}
}
