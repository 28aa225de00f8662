package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a ledger state change published to the event stream
type EventType string

const (
	EventTransferCompleted         EventType = "transfer.completed"
	EventBalanceUpdated            EventType = "balance.updated"
	EventCardToggled               EventType = "card.toggled"
	EventContactAdded              EventType = "contact.added"
	EventMoneyRequestCreated       EventType = "money_request.created"
	EventMoneyRequestAccepted      EventType = "money_request.accepted"
	EventMoneyRequestRejected      EventType = "money_request.rejected"
	EventMoneyRequestCancelled     EventType = "money_request.cancelled"
	EventScheduledTransferCreated  EventType = "scheduled_transfer.created"
	EventScheduledTransferUpdated  EventType = "scheduled_transfer.updated"
	EventScheduledTransferCanceled EventType = "scheduled_transfer.cancelled"
	EventPreferencesUpdated        EventType = "preferences.updated"
)

var knownEventTypes = map[EventType]struct{}{
	EventTransferCompleted:         {},
	EventBalanceUpdated:            {},
	EventCardToggled:               {},
	EventContactAdded:              {},
	EventMoneyRequestCreated:       {},
	EventMoneyRequestAccepted:      {},
	EventMoneyRequestRejected:      {},
	EventMoneyRequestCancelled:     {},
	EventScheduledTransferCreated:  {},
	EventScheduledTransferUpdated:  {},
	EventScheduledTransferCanceled: {},
	EventPreferencesUpdated:        {},
}

// Valid reports whether t is one of the published event types
func (t EventType) Valid() bool {
	_, ok := knownEventTypes[t]
	return ok
}

// LedgerEvent is the Kafka message emitted after every successful mutation
type LedgerEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewLedgerEvent builds an event with a fresh id, marshalling payload as JSON
func NewLedgerEvent(eventType EventType, aggregateID string, payload interface{}) (*LedgerEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &LedgerEvent{
		EventID:     uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     data,
	}, nil
}
