package amqp

import (
	"encoding/json"
	"time"

	"budgetbuddy/internal/core"

	"github.com/google/uuid"
)

// Event types double as routing keys on the topic exchange.
const (
	EventBudgetCreated = "budget.created"
	EventPocketCreated = "pocket.created"
)

// EventMessage is the envelope of every budget domain event.
type EventMessage struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	BudgetID   uuid.UUID      `json:"budget_id"`
	Budget     *BudgetPayload `json:"budget,omitempty"`
	Pocket     *PocketPayload `json:"pocket,omitempty"`
}

type BudgetPayload struct {
	Name        string      `json:"name"`
	LimitMinor  int64       `json:"limit_minor"`
	Currency    string      `json:"currency"`
	Owners      []uuid.UUID `json:"owners"`
	PeriodStart string      `json:"period_start"`
	PeriodEnd   string      `json:"period_end"`
	SchemaKind  string      `json:"schema_kind"`
	SchemaDay   int         `json:"schema_day"`
}

type PocketPayload struct {
	Name       string `json:"name,omitempty"`
	LimitMinor int64  `json:"limit_minor"`
	Currency   string `json:"currency"`
}

// NewBudgetCreatedMessage builds the event for a freshly saved budget.
func NewBudgetCreatedMessage(b core.BudgetSnapshot) *EventMessage {
	return &EventMessage{
		ID:         uuid.New(),
		Type:       EventBudgetCreated,
		OccurredAt: time.Now().UTC(),
		BudgetID:   b.ID,
		Budget: &BudgetPayload{
			Name:        b.Name.String(),
			LimitMinor:  b.Limit.Amount(),
			Currency:    b.Limit.Currency().String(),
			Owners:      b.Owners,
			PeriodStart: b.Period.Start().String(),
			PeriodEnd:   b.Period.End().String(),
			SchemaKind:  string(b.Schema.Kind()),
			SchemaDay:   b.Schema.Day(),
		},
	}
}

// NewPocketCreatedMessage builds the event for a pocket added to budgetID.
func NewPocketCreatedMessage(budgetID uuid.UUID, p core.Pocket) *EventMessage {
	return &EventMessage{
		ID:         uuid.New(),
		Type:       EventPocketCreated,
		OccurredAt: time.Now().UTC(),
		BudgetID:   budgetID,
		Pocket: &PocketPayload{
			Name:       p.Name,
			LimitMinor: p.Limit.Amount(),
			Currency:   p.Limit.Currency().String(),
		},
	}
}

// ToJSON converts the message to JSON bytes
func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON decodes a message body.
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
