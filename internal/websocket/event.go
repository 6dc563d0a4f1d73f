package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated       EventType = "created"
	EventTypeUpdated       EventType = "updated"
	EventTypeDeleted       EventType = "deleted"
	EventTypeCascadeDelete EventType = "cascade_deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction     EntityType = "transaction"
	EntityTypeBudget          EntityType = "budget"
	EntityTypeExpenseCategory EntityType = "expense_category"
	EntityTypeIncomeCategory  EntityType = "income_category"
	EntityTypePaymentMethod   EntityType = "payment_method"
	EntityTypeDateRange       EntityType = "date_range"
)

// Event represents a change notification sent to subscribers
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType `json:"entity"`    // Entity type e.g. "transaction"
	Payload   any        `json:"payload"`   // Full entity data
	Timestamp time.Time  `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload any) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// BudgetCreated creates a budget.created event
func BudgetCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

// BudgetDeleted creates a budget.deleted event
func BudgetDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudget, payload)
}

// BudgetCascadeDeleted is sent for budgets removed together with their category
func BudgetCascadeDeleted(payload any) Event {
	return NewEvent(EventTypeCascadeDelete, EntityTypeBudget, payload)
}

// PaymentMethodCreated creates a payment_method.created event
func PaymentMethodCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypePaymentMethod, payload)
}

// PaymentMethodUpdated creates a payment_method.updated event
func PaymentMethodUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypePaymentMethod, payload)
}

// PaymentMethodDeleted creates a payment_method.deleted event
func PaymentMethodDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypePaymentMethod, payload)
}

// DateRangeUpdated creates a date_range.updated event
func DateRangeUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeDateRange, payload)
}
