// Package worker consumes budget domain events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/core"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/ports"
)

// Stats counts processed events by type.
type Stats struct {
	BudgetsCreated int
	PocketsCreated int
	Skipped        int
}

// EventWorker reconciles incoming events with the repository and keeps
// running totals. Events for budgets the repository does not know are
// skipped, not retried, since they can never succeed.
type EventWorker struct {
	repo ports.BudgetRepository

	mu    sync.Mutex
	stats Stats
}

func NewEventWorker(repo ports.BudgetRepository) *EventWorker {
	return &EventWorker{repo: repo}
}

// Handle implements amqp.Handler.
func (w *EventWorker) Handle(ctx context.Context, msg *amqp.EventMessage) error {
	start := time.Now()
	logger := log.FromContext(ctx).WithComponent(log.ComponentWorker).With(
		log.FieldOperation, log.OpConsume,
		log.FieldEventType, msg.Type,
		log.FieldMessageID, msg.ID.String())

	var err error
	switch msg.Type {
	case amqp.EventBudgetCreated:
		err = w.handleBudgetCreated(ctx, logger, msg)
	case amqp.EventPocketCreated:
		err = w.handlePocketCreated(ctx, logger, msg)
	default:
		logger.WarnContext(ctx, "Skipping unknown event type")
		w.record(func(s *Stats) { s.Skipped++ })
	}
	logger.DebugContext(ctx, "Event handled", log.FieldDuration, time.Since(start).Milliseconds())
	return err
}

func (w *EventWorker) handleBudgetCreated(ctx context.Context, logger *log.Logger, msg *amqp.EventMessage) error {
	b, err := w.load(ctx, logger, msg)
	if err != nil || b == nil {
		return err
	}
	snap := b.Snapshot()
	logger.WithFields(log.NewFields().WithBudget(snap).WithSchema(snap.Schema)).
		InfoContext(ctx, "Budget created")
	w.record(func(s *Stats) { s.BudgetsCreated++ })
	return nil
}

func (w *EventWorker) handlePocketCreated(ctx context.Context, logger *log.Logger, msg *amqp.EventMessage) error {
	b, err := w.load(ctx, logger, msg)
	if err != nil || b == nil {
		return err
	}
	remaining := b.RemainingHeadroom()
	attrs := []any{
		log.FieldBudgetID, b.ID().String(),
		"pockets", len(b.Pockets()),
		"remaining", remaining.String(),
	}
	if msg.Pocket != nil {
		attrs = append(attrs, log.FieldPocketName, msg.Pocket.Name, log.FieldAmountMinor, msg.Pocket.LimitMinor)
	}
	if remaining.Amount() < 0 {
		logger.ErrorContext(ctx, "Budget over-allocated", attrs...)
	} else {
		logger.InfoContext(ctx, "Pocket created", attrs...)
	}
	w.record(func(s *Stats) { s.PocketsCreated++ })
	return nil
}

// load returns nil without error when the budget is unknown.
func (w *EventWorker) load(ctx context.Context, logger *log.Logger, msg *amqp.EventMessage) (*core.Budget, error) {
	b, err := w.repo.GetByID(ctx, msg.BudgetID)
	if errors.Is(err, core.ErrBudgetNotFound) {
		logger.WarnContext(ctx, "Skipping event for unknown budget", log.FieldBudgetID, msg.BudgetID.String())
		w.record(func(s *Stats) { s.Skipped++ })
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load budget %s: %w", msg.BudgetID, err)
	}
	return b, nil
}

func (w *EventWorker) record(fn func(*Stats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.stats)
}

// Stats returns a copy of the running totals.
func (w *EventWorker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// LogStats writes the running totals at info level.
func (w *EventWorker) LogStats(ctx context.Context) {
	s := w.Stats()
	log.FromContext(ctx).WithComponent(log.ComponentWorker).InfoContext(ctx, "Event worker stats",
		"budgets_created", s.BudgetsCreated,
		"pockets_created", s.PocketsCreated,
		"skipped", s.Skipped)
}
