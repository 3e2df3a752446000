package seats

// AssignSeatRequest is the body for PUT /tickets/:id/seat.
type AssignSeatRequest struct {
	SeatNumber string `json:"seat_number" binding:"required,seat_number"`
}

// SeatMapQuery binds the cabin class selector for GET /trips/:id/seatmap.
type SeatMapQuery struct {
	Class string `form:"class" binding:"required,oneof=Economy Business FirstClass"`
}
