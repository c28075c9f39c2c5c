package commands

import (
	"context"
	"fmt"

	"budgetbuddy/internal/core"
	"budgetbuddy/internal/lock"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/ports"
)

// CreatePocketHandler adds pockets to existing budgets.
type CreatePocketHandler struct {
	repo      ports.BudgetRepository
	locker    ports.NameLocker
	publisher ports.EventPublisher
	logger    *log.Logger
}

func NewCreatePocketHandler(repo ports.BudgetRepository, locker ports.NameLocker, publisher ports.EventPublisher, logger *log.Logger) *CreatePocketHandler {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &CreatePocketHandler{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentCommands),
	}
}

// Handle loads the budget, checks the pocket fits the remaining headroom
// and stores the updated budget. Concurrent pockets on one budget are
// serialised so their sum can never exceed the budget limit.
func (h *CreatePocketHandler) Handle(ctx context.Context, cmd CreatePocket) (*core.Budget, error) {
	pocket := core.Pocket{Name: cmd.Name, Limit: cmd.Limit}

	var budget *core.Budget
	err := h.locker.WithLock(ctx, budgetLockKey(cmd.BudgetID), func(ctx context.Context) error {
		b, err := h.repo.GetByID(ctx, cmd.BudgetID)
		if err != nil {
			return fmt.Errorf("load budget %s: %w", cmd.BudgetID, err)
		}
		if cmd.Limit.Currency() != b.Limit().Currency() {
			return fmt.Errorf("%w: pocket %s, budget %s", core.ErrCurrencyMismatch, cmd.Limit.Currency(), b.Limit().Currency())
		}
		if !b.CanAccommodate(cmd.Limit) {
			return fmt.Errorf("%w: requested %s, remaining %s", core.ErrPocketLimitExceedsBudgetLimit, cmd.Limit, b.RemainingHeadroom())
		}
		if err := b.AddPocket(pocket); err != nil {
			return err
		}
		if err := h.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("update budget %s: %w", cmd.BudgetID, err)
		}
		budget = b
		return nil
	})
	if err != nil {
		h.logger.WarnContext(ctx, "Pocket not created",
			log.FieldBudgetID, cmd.BudgetID.String(),
			log.FieldError, err.Error())
		return nil, err
	}

	h.logger.WithFields(log.NewFields().WithOperation(log.OpCreatePocket).WithPocket(pocket)).
		InfoContext(ctx, "Pocket created", log.FieldBudgetID, cmd.BudgetID.String())

	if h.publisher != nil {
		if err := h.publisher.PublishPocketCreated(ctx, cmd.BudgetID, pocket); err != nil {
			h.logger.ErrorContext(ctx, "Failed to publish pocket event",
				log.FieldBudgetID, cmd.BudgetID.String(),
				log.FieldError, err.Error())
		}
	}
	return budget, nil
}
