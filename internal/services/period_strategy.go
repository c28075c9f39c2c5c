// Package services provides the budget creation domain services.
//
// This file implements the Strategy Pattern for computing budget periods.
// Each period kind (nth regular day, nth working day) has its own strategy
// that encapsulates how the end of the period is found.
package services

import (
	"context"
	"errors"
	"fmt"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/ports"
)

var (
	// ErrNoStrategy means no registered strategy applies to a period kind.
	ErrNoStrategy = errors.New("no period strategy for kind")
	// ErrStrategyConflict means more than one strategy applies to a kind.
	ErrStrategyConflict = errors.New("conflicting period strategies for kind")
)

// PeriodStrategy computes a budget period from its start date.
type PeriodStrategy interface {
	// CanApply reports whether the strategy handles kind.
	CanApply(kind core.PeriodKind) bool
	// ComputeDatePeriod is deterministic for a given start and schema.
	ComputeDatePeriod(ctx context.Context, start core.Date, schema core.PeriodSchema) (core.DatePeriod, error)
}

// RegularDayStrategy ends the period on the schema's day of the month
// following the start month.
type RegularDayStrategy struct{}

func (RegularDayStrategy) CanApply(kind core.PeriodKind) bool {
	return kind == core.NthRegularDay
}

func (RegularDayStrategy) ComputeDatePeriod(_ context.Context, start core.Date, schema core.PeriodSchema) (core.DatePeriod, error) {
	next := start.FirstOfNextMonth()
	end := core.NewDate(next.Year(), next.Month(), schema.Day())
	return core.NewDatePeriod(start, end)
}

// WorkingDayStrategy ends the period on the schema's n-th working day of
// the month following the start month.
type WorkingDayStrategy struct {
	oracle ports.WorkingDayOracle
}

func NewWorkingDayStrategy(oracle ports.WorkingDayOracle) *WorkingDayStrategy {
	return &WorkingDayStrategy{oracle: oracle}
}

func (*WorkingDayStrategy) CanApply(kind core.PeriodKind) bool {
	return kind == core.NthWorkingDay
}

// ComputeDatePeriod walks the target month day by day. Running out of days
// before reaching the count fails with core.ErrPeriodTargetUnreachable.
func (s *WorkingDayStrategy) ComputeDatePeriod(ctx context.Context, start core.Date, schema core.PeriodSchema) (core.DatePeriod, error) {
	first := start.FirstOfNextMonth()
	count := 0
	for d := first; d.Month() == first.Month(); d = d.AddDays(1) {
		working, err := s.oracle.IsWorkingDay(ctx, d)
		if err != nil {
			return core.DatePeriod{}, fmt.Errorf("check working day %s: %w", d, err)
		}
		if !working {
			continue
		}
		count++
		if count == schema.Day() {
			return core.NewDatePeriod(start, d)
		}
	}
	return core.DatePeriod{}, fmt.Errorf("%w: %d working days requested, %d found in %s %d",
		core.ErrPeriodTargetUnreachable, schema.Day(), count, first.Month(), first.Year())
}

// StrategyRegistry holds an unordered set of strategies and resolves the
// single one applicable to a kind.
type StrategyRegistry struct {
	strategies []PeriodStrategy
}

// NewStrategyRegistry validates that every known kind has exactly one
// applicable strategy.
func NewStrategyRegistry(strategies ...PeriodStrategy) (*StrategyRegistry, error) {
	r := &StrategyRegistry{strategies: strategies}
	for _, kind := range core.PeriodKinds() {
		if _, err := r.Resolve(kind); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultStrategies returns the built-in strategies.
func DefaultStrategies(oracle ports.WorkingDayOracle) []PeriodStrategy {
	return []PeriodStrategy{NewWorkingDayStrategy(oracle), RegularDayStrategy{}}
}

// Resolve returns the strategy for kind. Zero or several matches are errors,
// never a silent pick.
func (r *StrategyRegistry) Resolve(kind core.PeriodKind) (PeriodStrategy, error) {
	var found PeriodStrategy
	matches := 0
	for _, s := range r.strategies {
		if s.CanApply(kind) {
			found = s
			matches++
		}
	}
	switch matches {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoStrategy, kind)
	case 1:
		return found, nil
	}
	return nil, fmt.Errorf("%w: %s (%d matches)", ErrStrategyConflict, kind, matches)
}
