// Package record maps Budget aggregates to the flat rows stored by the SQL
// repositories.
package record

import (
	"fmt"

	"budgetbuddy/internal/core"

	"github.com/google/uuid"
)

// Budget is one row of the budgets table.
type Budget struct {
	ID          uuid.UUID
	Name        string
	LimitAmount int64
	Currency    string
	PeriodStart string
	PeriodEnd   string
	SchemaKind  string
	SchemaDay   int64
}

// Pocket is one row of the pockets table. Position keeps insertion order.
type Pocket struct {
	BudgetID    uuid.UUID
	Position    int64
	Name        string
	LimitAmount int64
	Currency    string
}

// FromSnapshot flattens a budget into its rows.
func FromSnapshot(s core.BudgetSnapshot) (Budget, []Pocket) {
	b := Budget{
		ID:          s.ID,
		Name:        s.Name.String(),
		LimitAmount: s.Limit.Amount(),
		Currency:    s.Limit.Currency().String(),
		PeriodStart: s.Period.Start().String(),
		PeriodEnd:   s.Period.End().String(),
		SchemaKind:  string(s.Schema.Kind()),
		SchemaDay:   int64(s.Schema.Day()),
	}
	pockets := make([]Pocket, len(s.Pockets))
	for i, p := range s.Pockets {
		pockets[i] = Pocket{
			BudgetID:    s.ID,
			Position:    int64(i),
			Name:        p.Name,
			LimitAmount: p.Limit.Amount(),
			Currency:    p.Limit.Currency().String(),
		}
	}
	return b, pockets
}

// ToDomain rebuilds the aggregate, re-running every value-object check so
// corrupt rows surface as errors instead of invalid budgets.
func (b Budget) ToDomain(owners []uuid.UUID, pockets []Pocket) (*core.Budget, error) {
	name, err := core.NewName(b.Name)
	if err != nil {
		return nil, fmt.Errorf("budget %s name: %w", b.ID, err)
	}
	limit, err := limitOf(b.LimitAmount, b.Currency)
	if err != nil {
		return nil, fmt.Errorf("budget %s limit: %w", b.ID, err)
	}
	start, err := core.ParseDate(b.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("budget %s period start: %w", b.ID, err)
	}
	end, err := core.ParseDate(b.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("budget %s period end: %w", b.ID, err)
	}
	period, err := core.NewDatePeriod(start, end)
	if err != nil {
		return nil, fmt.Errorf("budget %s period: %w", b.ID, err)
	}
	kind, err := core.ParsePeriodKind(b.SchemaKind)
	if err != nil {
		return nil, fmt.Errorf("budget %s schema: %w", b.ID, err)
	}
	schema, err := core.NewPeriodSchema(int(b.SchemaDay), kind)
	if err != nil {
		return nil, fmt.Errorf("budget %s schema: %w", b.ID, err)
	}

	snap := core.BudgetSnapshot{
		ID:     b.ID,
		Name:   name,
		Limit:  limit,
		Owners: owners,
		Period: period,
		Schema: schema,
	}
	for _, p := range pockets {
		pl, err := limitOf(p.LimitAmount, p.Currency)
		if err != nil {
			return nil, fmt.Errorf("budget %s pocket %d: %w", b.ID, p.Position, err)
		}
		snap.Pockets = append(snap.Pockets, core.Pocket{Name: p.Name, Limit: pl})
	}
	return core.BudgetFromSnapshot(snap), nil
}

func limitOf(amount int64, currency string) (core.Limit, error) {
	cur, err := core.ParseCurrency(currency)
	if err != nil {
		return core.Limit{}, err
	}
	return core.NewLimitFromAmount(amount, cur)
}
