// Package clock provides ports.Clock implementations.
package clock

import (
	"time"

	"budgetbuddy/internal/core"
)

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

// Today returns the current date in c.Location, UTC when unset.
func (c System) Today() core.Date {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return core.DateOf(time.Now().In(loc))
}

// Fixed always reports the same day.
type Fixed core.Date

func (c Fixed) Today() core.Date {
	return core.Date(c)
}
