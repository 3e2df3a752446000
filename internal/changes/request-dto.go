package changes

// QuoteChangeRequest asks what a change to another trip would cost.
type QuoteChangeRequest struct {
	NewTripID    string  `json:"new_trip_id" binding:"required,uuid"`
	NewSeatClass *string `json:"new_seat_class,omitempty" binding:"omitempty,oneof=Economy Business FirstClass"`
}

// InitiateChangeRequest starts the change workflow.
type InitiateChangeRequest struct {
	NewTripID    string  `json:"new_trip_id" binding:"required,uuid"`
	NewSeatClass *string `json:"new_seat_class,omitempty" binding:"omitempty,oneof=Economy Business FirstClass"`
	Reason       string  `json:"reason,omitempty" binding:"omitempty,max=200"`
}
