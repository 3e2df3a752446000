package changes

import (
	"time"

	"aerobook/internal/trips"

	"github.com/google/uuid"
)

// TicketChangeHistory is the append-only audit record for one completed
// ticket exchange. Written exactly once inside the apply transaction and
// never updated afterward.
type TicketChangeHistory struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OriginalTicketID uuid.UUID `gorm:"type:uuid;index;not null" json:"original_ticket_id"`
	NewTicketID      uuid.UUID `gorm:"type:uuid;index;not null" json:"new_ticket_id"`

	ChangeDate      time.Time `gorm:"not null" json:"change_date"`
	ChangeFee       float64   `gorm:"not null" json:"change_fee"`
	PriceDifference float64   `gorm:"not null" json:"price_difference"`
	TotalPaid       float64   `gorm:"not null" json:"total_paid"`
	Reason          string    `json:"reason,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

func (TicketChangeHistory) TableName() string {
	return "ticket_change_histories"
}

// Payment records money collected for a ticket, either at booking or for
// the due amount of a ticket change.
type Payment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketID uuid.UUID `gorm:"type:uuid;index;not null" json:"ticket_id"`

	Amount   float64   `gorm:"not null" json:"amount"`
	Currency string    `gorm:"type:varchar(3);not null" json:"currency"`
	Method   string    `gorm:"type:varchar(30);not null" json:"method"`
	TxnRef   string    `gorm:"type:varchar(64);index" json:"txn_ref,omitempty"`
	PaidAt   time.Time `gorm:"not null" json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PendingChange is the persisted intent behind a payment-gated change. It
// lives in Redis between the redirect and the callback, keyed both by an
// opaque server token and by the ticket id, and expires on its own so a
// callback that never arrives cannot block future change attempts.
type PendingChange struct {
	Token    string    `json:"token"`
	TicketID uuid.UUID `json:"ticket_id"`
	UserID   uuid.UUID `json:"user_id"`

	NewTripID    uuid.UUID       `json:"new_trip_id"`
	NewSeatClass trips.SeatClass `json:"new_seat_class"`
	Reason       string          `json:"reason,omitempty"`

	ChangeFee       float64 `json:"change_fee"`
	PriceDifference float64 `json:"price_difference"`
	TotalDue        float64 `json:"total_due"`

	CreatedAt time.Time `json:"created_at"`
}
