// Package workday decides whether a calendar day is a working day.
package workday

import (
	"context"
	"fmt"
	"time"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/ports"
)

// fixedHolidays are keyed by "MM-DD" and apply to every year.
var fixedHolidays = map[string]string{
	"01-01": "New Year's Day",
	"01-06": "Epiphany",
	"05-01": "International Workers' Day",
	"11-01": "All Saints' Day",
	"11-11": "Armistice Day / Veterans Day",
	"12-25": "Christmas",
	"12-26": "Boxing Day",
}

var _ ports.WorkingDayOracle = (*Offline)(nil)

// Offline uses a built-in list of fixed-date holidays. It performs no I/O.
type Offline struct {
	holidays map[string]string
}

// NewOffline returns an oracle with the default holiday list, extended by
// extra (same "MM-DD" keys). Entries in extra override the defaults.
func NewOffline(extra map[string]string) *Offline {
	holidays := make(map[string]string, len(fixedHolidays)+len(extra))
	for k, v := range fixedHolidays {
		holidays[k] = v
	}
	for k, v := range extra {
		holidays[k] = v
	}
	return &Offline{holidays: holidays}
}

func (o *Offline) IsWorkingDay(_ context.Context, d core.Date) (bool, error) {
	if IsWeekend(d) {
		return false, nil
	}
	_, holiday := o.Holiday(d)
	return !holiday, nil
}

// Holiday returns the holiday name when d is one.
func (o *Offline) Holiday(d core.Date) (string, bool) {
	name, ok := o.holidays[monthDayKey(d)]
	return name, ok
}

// IsWeekend reports Saturdays and Sundays.
func IsWeekend(d core.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func monthDayKey(d core.Date) string {
	return fmt.Sprintf("%02d-%02d", int(d.Month()), d.Day())
}
