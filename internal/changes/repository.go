package changes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aerobook/internal/shared/dblock"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTicketNotFound is returned when the ticket to change does not exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrTicketAlreadyChanged is returned when the original ticket was
	// cancelled between the quote and the apply.
	ErrTicketAlreadyChanged = errors.New("ticket is no longer active")
	// ErrClassSoldOut is returned when the target class has no remaining
	// seats at apply time.
	ErrClassSoldOut = errors.New("target seat class is sold out")
)

// ApplyParams carries everything the atomic apply needs. Amounts come from
// the quoted (or payment-verified) pending change, never recomputed here.
type ApplyParams struct {
	OriginalTicketID uuid.UUID
	NewTripID        uuid.UUID
	NewSeatClass     trips.SeatClass
	Reason           string

	ChangeFee       float64
	PriceDifference float64
	TotalDue        float64

	// PaymentTxnRef is the gateway transaction reference when the change was
	// payment-gated; empty for zero-due changes.
	PaymentTxnRef   string
	PaymentMethod   string
	PaymentCurrency string
}

// Repository owns every database write of the change workflow. All writes
// happen inside ApplyChange's single transaction; no other code path may
// touch cancellation flags or seat counters.
type Repository interface {
	// ApplyChange performs the atomic apply: insert the replacement ticket
	// with a fresh PNR, soft-cancel the original, write one history row,
	// move one seat from the new trip's counter to the original trip's, and
	// record a payment when money changed hands. Any failure rolls the
	// whole transaction back.
	ApplyChange(ctx context.Context, params ApplyParams) (*tickets.Ticket, *TicketChangeHistory, error)

	// ListHistoryForTicket returns audit rows where the ticket appears on
	// either side of a change, newest first.
	ListHistoryForTicket(ctx context.Context, ticketID uuid.UUID) ([]TicketChangeHistory, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// txPNRStore checks PNR uniqueness against the transaction's view so the
// new code is unique with respect to rows inserted earlier in the same tx.
type txPNRStore struct {
	tx *gorm.DB
}

func (s *txPNRStore) PNRExists(ctx context.Context, pnr string) (bool, error) {
	var count int64
	err := s.tx.WithContext(ctx).Model(&tickets.Ticket{}).
		Where("pnr = ?", pnr).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ApplyChange(ctx context.Context, params ApplyParams) (*tickets.Ticket, *TicketChangeHistory, error) {
	var (
		newTicket tickets.Ticket
		history   TicketChangeHistory
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the original ticket. Eligibility was checked outside this
		// transaction, so re-verify the states that gate correctness.
		var original tickets.Ticket
		err := dblock.LockForUpdate(tx).
			Where("id = ?", params.OriginalTicketID).
			First(&original).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		if original.IsCancelled {
			return ErrTicketAlreadyChanged
		}

		// 2. Lock the new trip and claim a seat from its counter. The
		// guarded UPDATE is the sold-out check: zero rows affected means
		// the counter was already at 0.
		seatCol := trips.SeatColumn(params.NewSeatClass)
		if seatCol == "" {
			return fmt.Errorf("unknown seat class: %s", params.NewSeatClass)
		}
		claim := tx.Model(&trips.Trip{}).
			Where("id = ? AND "+seatCol+" > 0", params.NewTripID).
			UpdateColumn(seatCol, gorm.Expr(seatCol+" - 1"))
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&trips.Trip{}).Where("id = ?", params.NewTripID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return trips.ErrTripNotFound
			}
			return ErrClassSoldOut
		}

		// 3. Return the original seat to its trip's pool.
		origCol := trips.SeatColumn(original.SeatClass)
		err = tx.Model(&trips.Trip{}).
			Where("id = ?", original.TripID).
			UpdateColumn(origCol, gorm.Expr(origCol+" + 1")).Error
		if err != nil {
			return err
		}

		// 4. Fresh PNR for the replacement ticket. Exhaustion aborts the
		// whole change.
		pnr, err := tickets.GeneratePNR(ctx, &txPNRStore{tx: tx})
		if err != nil {
			return err
		}

		// 5. Insert the replacement. Seat number is deliberately left empty;
		// the passenger picks a seat on the new trip afterwards.
		now := time.Now()
		newTicket = tickets.Ticket{
			ID:             uuid.New(),
			TripID:         params.NewTripID,
			UserID:         original.UserID,
			SeatClass:      params.NewSeatClass,
			PassengerName:  original.PassengerName,
			ContactEmail:   original.ContactEmail,
			PNR:            pnr,
			BookedAt:       now,
			PaymentStatus:  tickets.PaymentCompleted,
			TotalPrice:     original.TotalPrice + params.PriceDifference,
			AddOns:         original.AddOns,
			TicketType:     original.TicketType,
			LinkedTicketID: original.LinkedTicketID,
			BookingGroupID: original.BookingGroupID,
		}
		if err := tx.Create(&newTicket).Error; err != nil {
			return err
		}

		// 6. Soft-cancel the original. The is_cancelled guard makes the
		// cancel a second serialization point on top of the row lock: if
		// another transaction cancelled the ticket first, zero rows are
		// affected and the whole change rolls back.
		reason := params.Reason
		if reason == "" {
			reason = "changed by user"
		}
		cancel := tx.Model(&tickets.Ticket{}).
			Where("id = ? AND is_cancelled = false", original.ID).
			Updates(map[string]interface{}{
				"is_cancelled":        true,
				"cancelled_at":        now,
				"cancellation_reason": reason,
				"updated_at":          now,
			})
		if cancel.Error != nil {
			return cancel.Error
		}
		if cancel.RowsAffected == 0 {
			return ErrTicketAlreadyChanged
		}

		// 7. Append the audit row.
		history = TicketChangeHistory{
			ID:               uuid.New(),
			OriginalTicketID: original.ID,
			NewTicketID:      newTicket.ID,
			ChangeDate:       now,
			ChangeFee:        params.ChangeFee,
			PriceDifference:  params.PriceDifference,
			TotalPaid:        params.TotalDue,
			Reason:           reason,
			Status:           "COMPLETED",
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		// 8. Record the payment when money changed hands.
		if params.TotalDue > 0 {
			payment := Payment{
				ID:       uuid.New(),
				TicketID: newTicket.ID,
				Amount:   params.TotalDue,
				Currency: params.PaymentCurrency,
				Method:   params.PaymentMethod,
				TxnRef:   params.PaymentTxnRef,
				PaidAt:   now,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &newTicket, &history, nil
}

func (r *repository) ListHistoryForTicket(ctx context.Context, ticketID uuid.UUID) ([]TicketChangeHistory, error) {
	var rows []TicketChangeHistory
	err := r.db.WithContext(ctx).
		Where("original_ticket_id = ? OR new_ticket_id = ?", ticketID, ticketID).
		Order("change_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
