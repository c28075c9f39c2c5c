// Package ports declares the collaborators the budgeting core depends on.
package ports

import (
	"context"

	"budgetbuddy/internal/core"

	"github.com/google/uuid"
)

// Ports for outbound adapters.
type (
	// BudgetRepository persists budget aggregates. Save must be
	// insert-if-absent by id and must reject a second budget with the same
	// name for an overlapping owner with core.ErrBudgetAlreadyExists.
	BudgetRepository interface {
		// Exists reports whether a budget named name is owned by any of owners.
		Exists(ctx context.Context, name core.Name, owners []uuid.UUID) (bool, error)
		Save(ctx context.Context, b *core.Budget) error
		// GetByID returns core.ErrBudgetNotFound when id is unknown.
		GetByID(ctx context.Context, id uuid.UUID) (*core.Budget, error)
		// Update replaces the stored pockets of an existing budget.
		Update(ctx context.Context, b *core.Budget) error
	}

	WorkingDayOracle interface {
		IsWorkingDay(ctx context.Context, d core.Date) (bool, error)
	}

	Clock interface {
		Today() core.Date
	}

	// EventPublisher announces committed changes. Publishing happens after
	// persistence and is best effort.
	EventPublisher interface {
		PublishBudgetCreated(ctx context.Context, b core.BudgetSnapshot) error
		PublishPocketCreated(ctx context.Context, budgetID uuid.UUID, p core.Pocket) error
	}

	// NameLocker runs fn while holding an exclusive lock on key.
	NameLocker interface {
		WithLock(ctx context.Context, key string, fn func(context.Context) error) error
	}
)
