package backend

import (
	"fmt"

	"budgetbuddy/internal/commands"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
)

// App bundles the use cases built on top of a Backend.
type App struct {
	Budgets *commands.CreateBudgetHandler
	Pockets *commands.CreatePocketHandler
	Periods *services.CreateBudgetService
}

// NewApp validates the strategy set for b's oracle and wires the handlers.
func NewApp(b Backend, logger *log.Logger) (*App, error) {
	registry, err := services.NewStrategyRegistry(services.DefaultStrategies(b.Oracle)...)
	if err != nil {
		return nil, fmt.Errorf("build strategy registry: %w", err)
	}
	svc := services.NewCreateBudgetService(registry)
	return &App{
		Budgets: commands.NewCreateBudgetHandler(b.Clock, b.Repository, svc, b.Locker, b.Publisher, logger),
		Pockets: commands.NewCreatePocketHandler(b.Repository, b.Locker, b.Publisher, logger),
		Periods: svc,
	}, nil
}
