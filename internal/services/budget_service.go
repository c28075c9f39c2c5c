package services

import (
	"context"
	"fmt"

	"budgetbuddy/internal/core"

	"github.com/google/uuid"
)

// CreateBudgetService picks the period strategy for a schema and assembles
// new Budget aggregates.
type CreateBudgetService struct {
	registry *StrategyRegistry
	newID    func() uuid.UUID
}

func NewCreateBudgetService(registry *StrategyRegistry) *CreateBudgetService {
	return &CreateBudgetService{registry: registry, newID: uuid.New}
}

// ComputePeriod resolves the strategy for schema and computes the period.
func (s *CreateBudgetService) ComputePeriod(ctx context.Context, start core.Date, schema core.PeriodSchema) (core.DatePeriod, error) {
	strategy, err := s.registry.Resolve(schema.Kind())
	if err != nil {
		return core.DatePeriod{}, err
	}
	period, err := strategy.ComputeDatePeriod(ctx, start, schema)
	if err != nil {
		return core.DatePeriod{}, fmt.Errorf("compute period %s from %s: %w", schema, start, err)
	}
	return period, nil
}

// CreateBudget builds a new budget with a fresh id. Nothing is persisted.
func (s *CreateBudgetService) CreateBudget(ctx context.Context, start core.Date, owners []uuid.UUID, name core.Name, limit core.Limit, schema core.PeriodSchema) (*core.Budget, error) {
	period, err := s.ComputePeriod(ctx, start, schema)
	if err != nil {
		return nil, err
	}
	return core.NewBudget(s.newID(), name, limit, owners, period, schema), nil
}
