package tickets

import (
	"context"
	"errors"
	"strings"
	"time"

	"aerobook/internal/shared/dblock"
	"aerobook/internal/trips"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTicketNotFound is returned when no ticket exists for the given key.
var ErrTicketNotFound = errors.New("ticket not found")

// Repository is the persistence surface for tickets. The specialized
// lookups (PNR+email, booked seats per trip+class) live here as first-class
// methods so callers never reach past the interface for them.
type Repository interface {
	PNRStore

	GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetTicketByPNRAndEmail(ctx context.Context, pnr, email string) (*Ticket, error)
	CreateTicket(ctx context.Context, ticket *Ticket) error

	// Seat occupancy reads over active tickets only.
	ListBookedSeats(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) ([]string, error)
	IsSeatTaken(ctx context.Context, tripID uuid.UUID, class trips.SeatClass, seatNumber string) (bool, error)

	// CheckIn flips the check-in flag transactionally, re-reading the
	// ticket under a row lock so concurrent check-ins stay idempotent.
	CheckIn(ctx context.Context, id uuid.UUID, validate func(*Ticket) error) (*Ticket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetTicketByPNRAndEmail(ctx context.Context, pnr, email string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Where("UPPER(pnr) = ? AND LOWER(contact_email) = ?",
			strings.ToUpper(pnr), strings.ToLower(email)).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) CreateTicket(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *repository) PNRExists(ctx context.Context, pnr string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("pnr = ?", pnr).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListBookedSeats(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) ([]string, error) {
	var seats []string
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("trip_id = ? AND seat_class = ? AND is_cancelled = false AND seat_number <> ''",
			tripID, class).
		Pluck("seat_number", &seats).Error
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (r *repository) IsSeatTaken(ctx context.Context, tripID uuid.UUID, class trips.SeatClass, seatNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("trip_id = ? AND seat_class = ? AND is_cancelled = false AND UPPER(seat_number) = ?",
			tripID, class, strings.ToUpper(seatNumber)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CheckIn(ctx context.Context, id uuid.UUID, validate func(*Ticket) error) (*Ticket, error) {
	var checked Ticket
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket Ticket
		err := dblock.LockForUpdate(tx).
			Where("id = ?", id).
			First(&ticket).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		if err := validate(&ticket); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&Ticket{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"is_checked_in": true,
				"checked_in_at": now,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}

		ticket.IsCheckedIn = true
		ticket.CheckedInAt = &now
		checked = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &checked, nil
}
