package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TicketEventType enumerates the ticket lifecycle events published to Kafka.
type TicketEventType string

const (
	EventTicketChanged   TicketEventType = "ticket.changed"
	EventTicketCheckedIn TicketEventType = "ticket.checked_in"
)

// TicketEvent is the wire payload for ticket lifecycle events. Downstream
// consumers (email, analytics) read these; the booking flow never depends
// on them being delivered.
type TicketEvent struct {
	ID   uuid.UUID       `json:"id"`
	Type TicketEventType `json:"type"`

	TicketID    uuid.UUID  `json:"ticket_id"`
	TripID      uuid.UUID  `json:"trip_id"`
	OldTicketID *uuid.UUID `json:"old_ticket_id,omitempty"`
	TotalPaid   float64    `json:"total_paid,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

func (e *TicketEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events for one ticket to the same partition so
// consumers see them in order.
func (e *TicketEvent) PartitionKey() string {
	return e.TicketID.String()
}
