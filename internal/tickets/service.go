package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aerobook/internal/shared/config"
	"aerobook/internal/trips"
	"aerobook/pkg/logger"

	"github.com/google/uuid"
)

// Check-in denial reasons. These are shown to passengers verbatim.
var (
	ErrCheckInCancelled     = errors.New("ticket is cancelled")
	ErrCheckInAlready       = errors.New("ticket is already checked in")
	ErrCheckInDeparted      = errors.New("trip has already departed")
	ErrCheckInWindowNotOpen = errors.New("online check-in is not open yet")
)

// EventPublisher is the narrow slice of the notifications producer the
// ticket service needs.
type EventPublisher interface {
	PublishCheckedIn(ctx context.Context, ticketID, tripID uuid.UUID)
}

type Service interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error)
	LookupByPNR(ctx context.Context, pnr, email string) (*Ticket, error)
	CheckIn(ctx context.Context, ticketID uuid.UUID) (*Ticket, error)
}

type service struct {
	repo      Repository
	tripRepo  trips.Repository
	config    *config.Config
	publisher EventPublisher
}

func NewService(repo Repository, tripRepo trips.Repository, cfg *config.Config, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		tripRepo:  tripRepo,
		config:    cfg,
		publisher: publisher,
	}
}

func (s *service) GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	return s.repo.GetTicketByID(ctx, id)
}

func (s *service) LookupByPNR(ctx context.Context, pnr, email string) (*Ticket, error) {
	if len(pnr) != 6 {
		return nil, fmt.Errorf("invalid PNR format")
	}
	return s.repo.GetTicketByPNRAndEmail(ctx, pnr, email)
}

// CheckIn performs online check-in. The permanent-state checks run before
// the time-window checks so the passenger sees the most specific reason.
func (s *service) CheckIn(ctx context.Context, ticketID uuid.UUID) (*Ticket, error) {
	ticket, err := s.repo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetTripByID(ctx, ticket.TripID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	checked, err := s.repo.CheckIn(ctx, ticketID, func(t *Ticket) error {
		switch {
		case t.IsCancelled:
			return ErrCheckInCancelled
		case t.IsCheckedIn:
			return ErrCheckInAlready
		case trip.HasDeparted(now):
			return ErrCheckInDeparted
		case trip.DepartureTime.Sub(now) > s.config.Change.CheckInWindow:
			return ErrCheckInWindowNotOpen
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogCheckIn(ctx, ticketID.String())
	if s.publisher != nil {
		s.publisher.PublishCheckedIn(ctx, ticketID, ticket.TripID)
	}

	return checked, nil
}
