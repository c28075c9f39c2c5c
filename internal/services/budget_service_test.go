package services

import (
	"context"
	"testing"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/workday"

	"github.com/google/uuid"
)

func newTestService(t *testing.T) *CreateBudgetService {
	t.Helper()
	registry, err := NewStrategyRegistry(DefaultStrategies(workday.NewOffline(nil))...)
	if err != nil {
		t.Fatal(err)
	}
	return NewCreateBudgetService(registry)
}

func TestCreateBudgetService_CreateBudget(t *testing.T) {
	svc := newTestService(t)
	fixedID := uuid.MustParse("8d7c1f0e-4b0a-4c4f-9a55-1f2d3c4b5a69")
	svc.newID = func() uuid.UUID { return fixedID }

	name, _ := core.NewName("Groceries")
	limit, _ := core.NewLimitFromAmount(100000, core.USD)
	owner := uuid.New()
	start := core.NewDate(2024, 11, 26)

	b, err := svc.CreateBudget(context.Background(), start, []uuid.UUID{owner}, name, limit, mustSchema(t, 18, core.NthWorkingDay))
	if err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}
	if b.ID() != fixedID {
		t.Errorf("ID() = %v, want %v", b.ID(), fixedID)
	}
	if b.Period().End() != core.NewDate(2024, 12, 27) {
		t.Errorf("Period() = %v", b.Period())
	}
	if b.Name() != name || b.Limit() != limit || len(b.Pockets()) != 0 {
		t.Errorf("unexpected budget %+v", b.Snapshot())
	}
}

func TestCreateBudgetService_ComputePeriod(t *testing.T) {
	svc := newTestService(t)
	got, err := svc.ComputePeriod(context.Background(), core.NewDate(2022, 12, 3), mustSchema(t, 16, core.NthRegularDay))
	if err != nil {
		t.Fatalf("ComputePeriod() error = %v", err)
	}
	if got.End() != core.NewDate(2023, 1, 16) {
		t.Errorf("ComputePeriod() = %v", got)
	}
}
