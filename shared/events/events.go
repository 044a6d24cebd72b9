package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	ClientCreated = "client.created"
	ClientUpdated = "client.updated"
	ClientDeleted = "client.deleted"

	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	AccountDeleted = "account.deleted"

	LedgerEntryCreated = "ledger.entry.created"
	LedgerEntryUpdated = "ledger.entry.updated"
	LedgerEntryDeleted = "ledger.entry.deleted"
)

// Stream names. Kafka uses them as topic names.
const (
	ClientEventsStream  = "client.events"
	AccountEventsStream = "account.events"
	LedgerEventsStream  = "ledger.events"
)

// Base event structure
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func NewEvent(eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode %s event: %w", e.Type, err)
	}
	return nil
}

func decodeEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}

// Client events
type ClientEvent struct {
	ClientID int64  `json:"clientId"`
	Name     string `json:"name"`
}

// Account events
type AccountEvent struct {
	AccountNumber int64  `json:"accountNumber"`
	ClientID      int64  `json:"clientId"`
	AccountType   string `json:"accountType"`
	// PreviousClientID is set on update when the account changed owner.
	PreviousClientID int64 `json:"previousClientId,omitempty"`
}

// Ledger events
type LedgerEntryEvent struct {
	EntryID        int64  `json:"entryId"`
	AccountNumber  int64  `json:"accountNumber"`
	Date           string `json:"date"`
	Type           string `json:"type"`
	Amount         int64  `json:"amount"`
	ClosingBalance int64  `json:"closingBalance"`
	// PreviousAccountNumber is set on update when the entry moved accounts.
	PreviousAccountNumber int64 `json:"previousAccountNumber,omitempty"`
}
