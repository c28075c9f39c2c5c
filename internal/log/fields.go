package log

import (
	"sort"

	"budgetbuddy/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldBudgetID    = "budget_id"
	FieldBudgetName  = "budget_name"
	FieldOwners      = "owners"
	FieldAmountMinor = "amount_minor"
	FieldCurrency    = "currency"
	FieldPeriodKind  = "period_kind"
	FieldPeriodDay   = "period_day"
	FieldPeriodStart = "period_start"
	FieldPeriodEnd   = "period_end"
	FieldPocketName  = "pocket_name"
	FieldEventType   = "event_type"
	FieldMessageID   = "message_id"
	FieldLockKey     = "lock_key"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCommands = "commands"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCalendar = "calendar"
	ComponentLock     = "lock"
	ComponentBackend  = "backend"
	ComponentCLI      = "cli"
)

// Operations defines standard operation names
const (
	OpCreateBudget = "create_budget"
	OpCreatePocket = "create_pocket"
	OpPublish      = "publish"
	OpConsume      = "consume"
	OpShutdown     = "shutdown"
	OpStartup      = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithBudget adds the identifying fields of a budget.
func (f LogFields) WithBudget(b core.BudgetSnapshot) LogFields {
	f[FieldBudgetID] = b.ID.String()
	f[FieldBudgetName] = b.Name.String()
	f[FieldOwners] = len(b.Owners)
	f[FieldAmountMinor] = b.Limit.Amount()
	f[FieldCurrency] = b.Limit.Currency().String()
	f[FieldPeriodStart] = b.Period.Start().String()
	f[FieldPeriodEnd] = b.Period.End().String()
	return f
}

// WithSchema adds period schema fields.
func (f LogFields) WithSchema(s core.PeriodSchema) LogFields {
	f[FieldPeriodKind] = string(s.Kind())
	f[FieldPeriodDay] = s.Day()
	return f
}

// WithPocket adds pocket fields.
func (f LogFields) WithPocket(p core.Pocket) LogFields {
	f[FieldPocketName] = p.Name
	f[FieldAmountMinor] = p.Limit.Amount()
	f[FieldCurrency] = p.Limit.Currency().String()
	return f
}

// ToSlice converts LogFields to key/value pairs for slog, sorted by key.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
