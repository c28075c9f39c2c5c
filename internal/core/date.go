package core

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day, normalised to UTC midnight so that values
// compare with ==.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day. Out-of-range values
// are normalised the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day of t, in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO date such as 2024-11-26.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year(), d.Month(), d.Day()+n)
}

// FirstOfNextMonth wraps December to January of the following year.
func (d Date) FirstOfNextMonth() Date {
	return NewDate(d.Year(), d.Month()+1, 1)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// DatePeriod is the validity window of a budget, both ends inclusive.
type DatePeriod struct {
	start Date
	end   Date
}

func NewDatePeriod(start, end Date) (DatePeriod, error) {
	if end.Before(start) {
		return DatePeriod{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, start, end)
	}
	return DatePeriod{start: start, end: end}, nil
}

func (p DatePeriod) Start() Date {
	return p.start
}

func (p DatePeriod) End() Date {
	return p.end
}

// Contains reports whether d falls inside the period.
func (p DatePeriod) Contains(d Date) bool {
	return !d.Before(p.start) && !d.After(p.end)
}

// Days is the number of calendar days covered, both ends included.
func (p DatePeriod) Days() int {
	return int(p.end.Sub(p.start.Time).Hours()/24) + 1
}

func (p DatePeriod) String() string {
	return p.start.String() + ".." + p.end.String()
}
