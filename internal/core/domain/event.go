package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCheckedIn    EventType = "room.checked_in"
	EventCheckedOut   EventType = "room.checked_out"
	EventOverridden   EventType = "room.overridden"
	EventChargeAdded  EventType = "folio.charge_added"
	EventPaymentTaken EventType = "folio.payment_taken"
)

// Event is emitted after a command has been applied.
type Event struct {
	ID       uuid.UUID   `json:"id"`
	Type     EventType   `json:"type"`
	RoomID   string      `json:"roomId"`
	Operator string      `json:"operator"`
	At       time.Time   `json:"at"`
	Payload  interface{} `json:"payload,omitempty"`
}

func NewEvent(t EventType, roomID string, op Operator, at time.Time, payload interface{}) Event {
	return Event{
		ID:       uuid.New(),
		Type:     t,
		RoomID:   roomID,
		Operator: op.ID,
		At:       at,
		Payload:  payload,
	}
}
