package seats

import (
	"context"
	"fmt"

	"aerobook/internal/tickets"
	"aerobook/internal/trips"
	"aerobook/pkg/logger"

	"github.com/google/uuid"
)

// Service is the only component permitted to write a ticket's seat number.
type Service interface {
	// GetSeatMap builds the transient seat map for one trip cabin. The
	// result is invalidated by any concurrent assignment, so callers must
	// not cache it past a single request.
	GetSeatMap(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) (*SeatMap, error)

	AssignSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) (*tickets.Ticket, error)
	ChangeSeat(ctx context.Context, ticketID uuid.UUID, newSeatNumber string) (*tickets.Ticket, error)
}

type service struct {
	repo     Repository
	tripRepo trips.Repository
}

func NewService(repo Repository, tripRepo trips.Repository) Service {
	return &service{
		repo:     repo,
		tripRepo: tripRepo,
	}
}

func (s *service) GetSeatMap(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) (*SeatMap, error) {
	if !class.Valid() {
		return nil, fmt.Errorf("unknown seat class: %s", class)
	}

	trip, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	capacity, _ := trip.CapacityFor(class)
	booked, err := s.repo.ListBookedSeats(ctx, tripID, class)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked seats: %w", err)
	}

	seatMap := GenerateSeatMap(class, capacity, booked)
	return &seatMap, nil
}

func (s *service) AssignSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) (*tickets.Ticket, error) {
	ticket, err := s.repo.AssignSeat(ctx, ticketID, seatNumber)
	if err != nil {
		return nil, err
	}
	logger.GetDefault().LogSeatAssigned(ctx, ticket.ID.String(), ticket.TripID.String(), ticket.SeatNumber)
	return ticket, nil
}

// ChangeSeat shares AssignSeat's contract; the same-seat short circuit
// happens inside the repository transaction, where the current seat is read
// under the lock.
func (s *service) ChangeSeat(ctx context.Context, ticketID uuid.UUID, newSeatNumber string) (*tickets.Ticket, error) {
	return s.AssignSeat(ctx, ticketID, newSeatNumber)
}
