package commands

import (
	"context"
	"fmt"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/lock"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/ports"
	"budgetbuddy/internal/services"
)

// CreateBudgetHandler validates and persists new budgets.
type CreateBudgetHandler struct {
	clock     ports.Clock
	repo      ports.BudgetRepository
	service   *services.CreateBudgetService
	locker    ports.NameLocker
	publisher ports.EventPublisher
	logger    *log.Logger
}

// NewCreateBudgetHandler wires the handler. A nil locker falls back to an
// in-process lock; a nil publisher disables events.
func NewCreateBudgetHandler(clock ports.Clock, repo ports.BudgetRepository, service *services.CreateBudgetService, locker ports.NameLocker, publisher ports.EventPublisher, logger *log.Logger) *CreateBudgetHandler {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &CreateBudgetHandler{
		clock:     clock,
		repo:      repo,
		service:   service,
		locker:    locker,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentCommands),
	}
}

// Handle creates the budget described by cmd.
//
// At least one owner is required and the start date may not lie before
// today. The uniqueness check and the
// insert run under a lock on the budget name so two concurrent requests
// for the same name and owner cannot both succeed; the repository's own
// constraint backs this up across processes.
func (h *CreateBudgetHandler) Handle(ctx context.Context, cmd CreateBudget) (*core.Budget, error) {
	if len(cmd.Owners) == 0 {
		return nil, fmt.Errorf("%w: %q", core.ErrNoOwners, cmd.Name)
	}
	today := h.clock.Today()
	if cmd.StartDate.Before(today) {
		return nil, fmt.Errorf("%w: start %s is before today %s", core.ErrInvalidDate, cmd.StartDate, today)
	}

	var budget *core.Budget
	err := h.locker.WithLock(ctx, budgetNameLockKey(cmd.Name), func(ctx context.Context) error {
		exists, err := h.repo.Exists(ctx, cmd.Name, cmd.Owners)
		if err != nil {
			return fmt.Errorf("check budget %q: %w", cmd.Name, err)
		}
		if exists {
			return fmt.Errorf("%w: %q", core.ErrBudgetAlreadyExists, cmd.Name)
		}

		b, err := h.service.CreateBudget(ctx, cmd.StartDate, cmd.Owners, cmd.Name, cmd.Limit, cmd.Schema)
		if err != nil {
			return err
		}
		if err := h.repo.Save(ctx, b); err != nil {
			return fmt.Errorf("save budget %q: %w", cmd.Name, err)
		}
		budget = b
		return nil
	})
	if err != nil {
		h.logger.WarnContext(ctx, "Budget not created",
			log.FieldBudgetName, cmd.Name.String(),
			log.FieldError, err.Error())
		return nil, err
	}

	snap := budget.Snapshot()
	h.logger.WithFields(log.NewFields().WithOperation(log.OpCreateBudget).WithBudget(snap).WithSchema(snap.Schema)).
		InfoContext(ctx, "Budget created")

	if h.publisher != nil {
		if err := h.publisher.PublishBudgetCreated(ctx, snap); err != nil {
			h.logger.ErrorContext(ctx, "Failed to publish budget event",
				log.FieldBudgetID, snap.ID.String(),
				log.FieldError, err.Error())
		}
	}
	return budget, nil
}
