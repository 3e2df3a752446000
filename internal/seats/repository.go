package seats

import (
	"context"
	"errors"
	"strings"
	"time"

	"aerobook/internal/shared/dblock"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment failure modes. Contention (seat taken) is distinct from
// validation (invalid seat, missing ticket) so callers can offer
// "pick another seat" instead of a generic failure.
var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidSeat    = errors.New("seat number does not exist in this cabin layout")
	ErrSeatTaken      = errors.New("seat is already taken")
	ErrTicketInactive = errors.New("ticket is cancelled")
)

type Repository interface {
	// Read path over active tickets.
	ListBookedSeats(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) ([]string, error)

	// AssignSeat writes the seat number inside a single transaction:
	// re-read the ticket under a row lock, re-check occupancy against the
	// live ticket table, then write. Any error rolls the whole unit back,
	// so a partial seat grant can never be observed. Returns the updated
	// ticket on success.
	AssignSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) (*tickets.Ticket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListBookedSeats(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) ([]string, error) {
	var seats []string
	err := r.db.WithContext(ctx).
		Model(&tickets.Ticket{}).
		Where("trip_id = ? AND seat_class = ? AND is_cancelled = false AND seat_number <> ''",
			tripID, class).
		Pluck("seat_number", &seats).Error
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (r *repository) AssignSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) (*tickets.Ticket, error) {
	seat := strings.ToUpper(strings.TrimSpace(seatNumber))

	var assigned tickets.Ticket
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the ticket row so concurrent assigns serialize on it.
		var ticket tickets.Ticket
		err := dblock.LockForUpdate(tx).
			Where("id = ?", ticketID).
			First(&ticket).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		if ticket.IsCancelled {
			return ErrTicketInactive
		}

		// Same seat requested again: nothing to do.
		if ticket.HoldsSeat(seat) {
			assigned = ticket
			return nil
		}

		// 2. Validate the seat exists in this trip's cabin layout.
		var trip trips.Trip
		if err := tx.Where("id = ?", ticket.TripID).First(&trip).Error; err != nil {
			return err
		}
		capacity, ok := trip.CapacityFor(ticket.SeatClass)
		if !ok || !ValidSeatNumber(ticket.SeatClass, capacity, seat) {
			return ErrInvalidSeat
		}

		// 3. Re-check occupancy against the live ticket table. The caller's
		// earlier availability read was a separate transaction and is not
		// race-free; this check inside the lock is the authoritative one.
		var count int64
		err = tx.Model(&tickets.Ticket{}).
			Where("trip_id = ? AND seat_class = ? AND is_cancelled = false AND UPPER(seat_number) = ? AND id <> ?",
				ticket.TripID, ticket.SeatClass, seat, ticket.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSeatTaken
		}

		// 4. Write.
		if err := tx.Model(&tickets.Ticket{}).
			Where("id = ?", ticket.ID).
			Updates(map[string]interface{}{
				"seat_number": seat,
				"updated_at":  time.Now(),
			}).Error; err != nil {
			return err
		}

		ticket.SeatNumber = seat
		assigned = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assigned, nil
}
