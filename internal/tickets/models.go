package tickets

import (
	"strings"
	"time"

	"aerobook/internal/trips"

	"github.com/google/uuid"
)

// TicketType distinguishes one-way purchases from round-trip legs.
type TicketType string

const (
	TypeOneWay    TicketType = "OneWay"
	TypeRoundTrip TicketType = "RoundTrip"
)

// PaymentStatus tracks what the customer has paid for the ticket.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// Ticket defines one purchased seat on one trip for one passenger.
//
// Tickets are immutable with respect to trip and class: a ticket change
// creates a replacement row and soft-cancels this one, it never rewrites
// the trip or class in place. Cancellation is always soft so the change
// history keeps valid references.
type Ticket struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TripID uuid.UUID `gorm:"type:uuid;index;not null" json:"trip_id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	SeatClass     trips.SeatClass `gorm:"type:varchar(20);not null" json:"seat_class"`
	SeatNumber    string          `gorm:"type:varchar(5)" json:"seat_number"`
	PassengerName string          `gorm:"not null" json:"passenger_name"`
	ContactEmail  string          `gorm:"index" json:"contact_email"`

	PNR           string        `gorm:"type:varchar(6);unique;not null" json:"pnr"`
	BookedAt      time.Time     `gorm:"not null" json:"booked_at"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"payment_status"`
	TotalPrice    float64       `gorm:"not null" json:"total_price"`
	AddOns        string        `json:"add_ons,omitempty"`

	IsCheckedIn bool       `gorm:"default:false" json:"is_checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`

	IsCancelled        bool       `gorm:"default:false;index" json:"is_cancelled"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	TicketType     TicketType `gorm:"type:varchar(20);default:'OneWay'" json:"ticket_type"`
	LinkedTicketID *uuid.UUID `gorm:"type:uuid" json:"linked_ticket_id,omitempty"`
	BookingGroupID *uuid.UUID `gorm:"type:uuid;index" json:"booking_group_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Trip *trips.Trip `json:"trip,omitempty" gorm:"foreignKey:TripID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// IsActive reports whether the ticket still occupies its seat and counters.
func (t *Ticket) IsActive() bool {
	return !t.IsCancelled
}

// HasSeat reports whether a seat number has been assigned.
func (t *Ticket) HasSeat() bool {
	return t.SeatNumber != ""
}

// HoldsSeat reports whether the ticket holds the given seat number,
// case-insensitively.
func (t *Ticket) HoldsSeat(seatNumber string) bool {
	return t.HasSeat() && strings.EqualFold(t.SeatNumber, seatNumber)
}

// Cancel soft-cancels the ticket with a reason. Never deletes the row.
func (t *Ticket) Cancel(reason string) {
	t.IsCancelled = true
	t.CancellationReason = reason
	now := time.Now()
	t.CancelledAt = &now
	t.UpdatedAt = now
}

// MarkCheckedIn records a completed online check-in.
func (t *Ticket) MarkCheckedIn() {
	t.IsCheckedIn = true
	now := time.Now()
	t.CheckedInAt = &now
	t.UpdatedAt = now
}
