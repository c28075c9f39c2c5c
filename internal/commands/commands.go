// Package commands holds the write-side use cases: creating budgets and
// adding pockets to them.
package commands

import (
	"budgetbuddy/internal/core"

	"github.com/google/uuid"
)

// CreateBudget asks for a new budget starting on StartDate.
type CreateBudget struct {
	StartDate core.Date
	Owners    []uuid.UUID
	Name      core.Name
	Limit     core.Limit
	Schema    core.PeriodSchema
}

// CreatePocket asks for a new pocket inside an existing budget.
type CreatePocket struct {
	BudgetID uuid.UUID
	Name     string
	Limit    core.Limit
}

func budgetNameLockKey(name core.Name) string {
	return "lock:budget:name:" + name.String()
}

func budgetLockKey(id uuid.UUID) string {
	return "lock:budget:id:" + id.String()
}
