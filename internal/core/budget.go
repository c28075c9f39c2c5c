package core

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Pocket is a sub-allocation of a budget. It has no identity outside its
// parent; Name is a display label only.
type Pocket struct {
	Name  string
	Limit Limit
}

// Budget is the aggregate root owning its pockets.
type Budget struct {
	id      uuid.UUID
	name    Name
	limit   Limit
	owners  []uuid.UUID
	period  DatePeriod
	schema  PeriodSchema
	pockets []Pocket
}

// BudgetSnapshot is the flat, copyable state of a Budget used by
// persistence adapters and event publishers.
type BudgetSnapshot struct {
	ID      uuid.UUID
	Name    Name
	Limit   Limit
	Owners  []uuid.UUID
	Period  DatePeriod
	Schema  PeriodSchema
	Pockets []Pocket
}

// NewBudget assembles a budget without pockets. Temporal and uniqueness
// rules are enforced by the command handlers, not here. Duplicate owners
// are collapsed.
func NewBudget(id uuid.UUID, name Name, limit Limit, owners []uuid.UUID, period DatePeriod, schema PeriodSchema) *Budget {
	return &Budget{
		id:     id,
		name:   name,
		limit:  limit,
		owners: uniqueOwners(owners),
		period: period,
		schema: schema,
	}
}

// BudgetFromSnapshot rebuilds a budget, pockets included.
func BudgetFromSnapshot(s BudgetSnapshot) *Budget {
	b := NewBudget(s.ID, s.Name, s.Limit, s.Owners, s.Period, s.Schema)
	b.pockets = slices.Clone(s.Pockets)
	return b
}

func (b *Budget) ID() uuid.UUID        { return b.id }
func (b *Budget) Name() Name           { return b.name }
func (b *Budget) Limit() Limit         { return b.limit }
func (b *Budget) Period() DatePeriod   { return b.period }
func (b *Budget) Schema() PeriodSchema { return b.schema }

func (b *Budget) Owners() []uuid.UUID {
	return slices.Clone(b.owners)
}

func (b *Budget) Pockets() []Pocket {
	return slices.Clone(b.pockets)
}

func (b *Budget) Snapshot() BudgetSnapshot {
	return BudgetSnapshot{
		ID:      b.id,
		Name:    b.name,
		Limit:   b.limit,
		Owners:  b.Owners(),
		Period:  b.period,
		Schema:  b.schema,
		Pockets: b.Pockets(),
	}
}

// SharesOwnerWith reports whether at least one of owners also owns b.
func (b *Budget) SharesOwnerWith(owners []uuid.UUID) bool {
	for _, o := range owners {
		if slices.Contains(b.owners, o) {
			return true
		}
	}
	return false
}

// AllocatedTotal is the sum of the pocket limits.
func (b *Budget) AllocatedTotal() Money {
	total := ZeroMoney(b.limit.Currency())
	for _, p := range b.pockets {
		// AddPocket guarantees a single currency and whole units.
		total.amount += p.Limit.Amount()
	}
	return total
}

// RemainingHeadroom is the budget limit minus the allocated total.
func (b *Budget) RemainingHeadroom() Money {
	return Money{
		amount:   b.limit.Amount() - b.AllocatedTotal().amount,
		currency: b.limit.Currency(),
	}
}

// CanAccommodate reports whether a pocket with the candidate limit still
// fits. A limit in another currency never fits.
func (b *Budget) CanAccommodate(candidate Limit) bool {
	cmp, err := candidate.Money().Compare(b.RemainingHeadroom())
	return err == nil && cmp <= 0
}

// AddPocket appends a pocket. The headroom check is the caller's job
// (see CanAccommodate); only the currency is enforced here.
func (b *Budget) AddPocket(p Pocket) error {
	if p.Limit.Currency() != b.limit.Currency() {
		return fmt.Errorf("%w: pocket %s, budget %s", ErrCurrencyMismatch, p.Limit.Currency(), b.limit.Currency())
	}
	b.pockets = append(b.pockets, p)
	return nil
}

func uniqueOwners(owners []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(owners))
	for _, o := range owners {
		if !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}
