package workday

import (
	"context"
	"testing"

	"budgetbuddy/internal/core"
)

func TestOffline_IsWorkingDay(t *testing.T) {
	oracle := NewOffline(nil)

	tests := []struct {
		name string
		date core.Date
		want bool
	}{
		{"regular monday", core.NewDate(2024, 12, 2), true},
		{"regular friday", core.NewDate(2024, 12, 27), true},
		{"saturday", core.NewDate(2024, 12, 7), false},
		{"sunday", core.NewDate(2024, 12, 1), false},
		{"christmas on wednesday", core.NewDate(2024, 12, 25), false},
		{"boxing day on thursday", core.NewDate(2024, 12, 26), false},
		{"all saints on friday", core.NewDate(2024, 11, 1), false},
		{"armistice on monday", core.NewDate(2024, 11, 11), false},
		{"new year in another year", core.NewDate(2030, 1, 1), false},
		{"epiphany", core.NewDate(2025, 1, 6), false},
		{"labour day", core.NewDate(2025, 5, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oracle.IsWorkingDay(context.Background(), tt.date)
			if err != nil {
				t.Fatalf("IsWorkingDay() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsWorkingDay(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestOffline_ExtraHolidays(t *testing.T) {
	oracle := NewOffline(map[string]string{"08-15": "Assumption"})

	name, ok := oracle.Holiday(core.NewDate(2024, 8, 15))
	if !ok || name != "Assumption" {
		t.Errorf("Holiday() = %q, %v", name, ok)
	}
	if _, ok := oracle.Holiday(core.NewDate(2024, 12, 25)); !ok {
		t.Error("defaults lost when extra holidays are given")
	}
}
