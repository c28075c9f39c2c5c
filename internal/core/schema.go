package core

import (
	"fmt"
	"strings"
)

// PeriodKind selects how a budget period is computed.
type PeriodKind string

const (
	NthWorkingDay PeriodKind = "NTH_WORKING_DAY"
	NthRegularDay PeriodKind = "NTH_REGULAR_DAY"
)

// Highest schema day accepted for each kind.
const (
	WorkingDayBreakpoint = 20
	RegularDayBreakpoint = 28
)

// PeriodKinds lists every supported kind.
func PeriodKinds() []PeriodKind {
	return []PeriodKind{NthWorkingDay, NthRegularDay}
}

// ParsePeriodKind accepts the canonical names as well as the short
// aliases "working" and "regular".
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(NthWorkingDay), "WORKING":
		return NthWorkingDay, nil
	case string(NthRegularDay), "REGULAR":
		return NthRegularDay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriodKind, s)
}

// Breakpoint returns the highest day allowed for the kind.
func (k PeriodKind) Breakpoint() (int, error) {
	switch k {
	case NthWorkingDay:
		return WorkingDayBreakpoint, nil
	case NthRegularDay:
		return RegularDayBreakpoint, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPeriodKind, string(k))
}

func (k PeriodKind) String() string {
	return string(k)
}

// PeriodSchema is the policy used to compute a budget's period end.
type PeriodSchema struct {
	kind PeriodKind
	day  int
}

func NewPeriodSchema(day int, kind PeriodKind) (PeriodSchema, error) {
	breakpoint, err := kind.Breakpoint()
	if err != nil {
		return PeriodSchema{}, err
	}
	if day < 1 || day > breakpoint {
		return PeriodSchema{}, fmt.Errorf("%w: day %d outside 1..%d for %s", ErrPeriodDayExceeded, day, breakpoint, kind)
	}
	return PeriodSchema{kind: kind, day: day}, nil
}

func (s PeriodSchema) Kind() PeriodKind {
	return s.kind
}

func (s PeriodSchema) Day() int {
	return s.day
}

func (s PeriodSchema) String() string {
	return fmt.Sprintf("%s(%d)", s.kind, s.day)
}
