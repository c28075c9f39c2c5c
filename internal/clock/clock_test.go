package clock

import (
	"testing"
	"time"

	"budgetbuddy/internal/core"
)

func TestFixed(t *testing.T) {
	d := core.NewDate(2024, 11, 26)
	if got := Fixed(d).Today(); got != d {
		t.Errorf("Fixed.Today() = %v, want %v", got, d)
	}
}

func TestSystem(t *testing.T) {
	before := core.DateOf(time.Now().UTC())
	got := System{}.Today()
	after := core.DateOf(time.Now().UTC())
	if got.Before(before) || got.After(after) {
		t.Errorf("System.Today() = %v, want between %v and %v", got, before, after)
	}
}
