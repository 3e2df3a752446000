package changes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aerobook/internal/fares"
	"aerobook/internal/shared/config"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"
)

// Eligibility is the verdict of one fresh eligibility evaluation. Denials
// carry a user-facing reason; only allowed results carry a fee.
type Eligibility struct {
	Allowed   bool    `json:"allowed"`
	Reason    string  `json:"reason,omitempty"`
	ChangeFee float64 `json:"change_fee"`
}

// EligibilityChecker decides whether a ticket may still be exchanged.
type EligibilityChecker interface {
	Check(ctx context.Context, ticket *tickets.Ticket) (*Eligibility, error)
}

type eligibilityChecker struct {
	engine   fares.Engine
	tripRepo trips.Repository
	minLead  time.Duration
	now      func() time.Time
}

func NewEligibilityChecker(engine fares.Engine, tripRepo trips.Repository, cfg *config.Config) EligibilityChecker {
	return &eligibilityChecker{
		engine:   engine,
		tripRepo: tripRepo,
		minLead:  time.Duration(cfg.Change.MinHoursBeforeDeparture) * time.Hour,
		now:      time.Now,
	}
}

// Check evaluates the ticket fresh on every call; eligibility is never
// cached. Permanent states (cancelled, checked-in) are tested before the
// time window so the customer sees the most specific reason first.
func (e *eligibilityChecker) Check(ctx context.Context, ticket *tickets.Ticket) (*Eligibility, error) {
	if ticket.IsCancelled {
		return deny("ticket cancelled"), nil
	}
	if ticket.IsCheckedIn {
		return deny("already checked in"), nil
	}

	trip, err := e.tripRepo.GetTripByID(ctx, ticket.TripID)
	if err != nil {
		if errors.Is(err, trips.ErrTripNotFound) {
			return deny("trip not found"), nil
		}
		return nil, err
	}

	now := e.now()
	if trip.DepartureTime.Before(now) {
		return deny("already departed"), nil
	}
	if trip.DepartureTime.Sub(now) < e.minLead {
		hours := int(e.minLead / time.Hour)
		return deny(fmt.Sprintf("changes must be requested at least %d hours before departure", hours)), nil
	}

	fee, err := e.engine.ChangeFeeFor(trip.Airline, ticket.SeatClass)
	if err != nil {
		return nil, err
	}
	return &Eligibility{Allowed: true, ChangeFee: fee}, nil
}

func deny(reason string) *Eligibility {
	return &Eligibility{Allowed: false, Reason: reason}
}
