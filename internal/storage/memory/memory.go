// Package memory provides a mutex-guarded in-memory BudgetRepository.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetbuddy/internal/core"

	"github.com/google/uuid"
)

type nameOwner struct {
	name  string
	owner uuid.UUID
}

// Repository stores budget snapshots by id. A (name, owner) index enforces
// the uniqueness rule on Save.
type Repository struct {
	mu      sync.RWMutex
	budgets map[uuid.UUID]core.BudgetSnapshot
	names   map[nameOwner]uuid.UUID
}

func New() *Repository {
	return &Repository{
		budgets: make(map[uuid.UUID]core.BudgetSnapshot),
		names:   make(map[nameOwner]uuid.UUID),
	}
}

func (r *Repository) Exists(_ context.Context, name core.Name, owners []uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range owners {
		if _, ok := r.names[nameOwner{name.String(), o}]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Save inserts b. It fails with core.ErrBudgetAlreadyExists when the id is
// taken or when any owner already has a budget with the same name; in that
// case nothing is written.
func (r *Repository) Save(_ context.Context, b *core.Budget) error {
	snap := b.Snapshot()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.budgets[snap.ID]; ok {
		return fmt.Errorf("%w: id %s", core.ErrBudgetAlreadyExists, snap.ID)
	}
	for _, o := range snap.Owners {
		if _, ok := r.names[nameOwner{snap.Name.String(), o}]; ok {
			return fmt.Errorf("%w: %q for owner %s", core.ErrBudgetAlreadyExists, snap.Name, o)
		}
	}

	r.budgets[snap.ID] = snap
	for _, o := range snap.Owners {
		r.names[nameOwner{snap.Name.String(), o}] = snap.ID
	}
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*core.Budget, error) {
	r.mu.RLock()
	snap, ok := r.budgets[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrBudgetNotFound, id)
	}
	return core.BudgetFromSnapshot(snap), nil
}

// Update replaces the pockets of a stored budget. Name, owners and period
// are immutable after creation.
func (r *Repository) Update(_ context.Context, b *core.Budget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.budgets[b.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrBudgetNotFound, b.ID())
	}
	snap.Pockets = b.Pockets()
	r.budgets[b.ID()] = snap
	return nil
}

// Len returns the number of stored budgets.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.budgets)
}
