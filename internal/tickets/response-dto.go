package tickets

import "time"

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID            string     `json:"id"`
	TripID        string     `json:"trip_id"`
	PNR           string     `json:"pnr"`
	SeatClass     string     `json:"seat_class"`
	SeatNumber    string     `json:"seat_number,omitempty"`
	PassengerName string     `json:"passenger_name"`
	TotalPrice    float64    `json:"total_price"`
	PaymentStatus string     `json:"payment_status"`
	TicketType    string     `json:"ticket_type"`
	IsCheckedIn   bool       `json:"is_checked_in"`
	CheckedInAt   *time.Time `json:"checked_in_at,omitempty"`
	IsCancelled   bool       `json:"is_cancelled"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	BookedAt      time.Time  `json:"booked_at"`
}

// ToResponse converts a Ticket to its public view.
func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		ID:            t.ID.String(),
		TripID:        t.TripID.String(),
		PNR:           t.PNR,
		SeatClass:     string(t.SeatClass),
		SeatNumber:    t.SeatNumber,
		PassengerName: t.PassengerName,
		TotalPrice:    t.TotalPrice,
		PaymentStatus: string(t.PaymentStatus),
		TicketType:    string(t.TicketType),
		IsCheckedIn:   t.IsCheckedIn,
		CheckedInAt:   t.CheckedInAt,
		IsCancelled:   t.IsCancelled,
		CancelledAt:   t.CancelledAt,
		BookedAt:      t.BookedAt,
	}
}
