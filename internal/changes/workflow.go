package changes

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"aerobook/internal/payments"
	"aerobook/internal/shared/config"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"
	"aerobook/pkg/logger"

	"github.com/google/uuid"
)

var (
	// ErrChangeNotAllowed wraps an eligibility denial; the denial reason is
	// the user-facing message.
	ErrChangeNotAllowed = errors.New("ticket change not allowed")
	// ErrPaymentDeclined is returned when the gateway reports a failed
	// payment; the original ticket is untouched.
	ErrPaymentDeclined = errors.New("payment was not successful")
	// ErrAmountMismatch is returned when the callback's paid amount does not
	// cover the quoted total due.
	ErrAmountMismatch = errors.New("paid amount does not match amount due")
)

// ChangeQuote is the answer to "what would this change cost me".
type ChangeQuote struct {
	Eligibility *Eligibility  `json:"eligibility"`
	Amount      *ChangeAmount `json:"amount,omitempty"`
}

// InitiateResult is the outcome of starting a change. Exactly one of
// PaymentURL (suspended, awaiting callback) or Applied (zero-due change,
// done synchronously) is set.
type InitiateResult struct {
	PaymentURL string       `json:"payment_url,omitempty"`
	Applied    *ApplyResult `json:"applied,omitempty"`
}

// ApplyResult reports a committed change.
type ApplyResult struct {
	NewTicket *tickets.Ticket      `json:"new_ticket"`
	History   *TicketChangeHistory `json:"history"`
}

// EventPublisher announces completed changes to downstream consumers.
// Publishing is best effort and never fails the workflow.
type EventPublisher interface {
	PublishTicketChanged(ctx context.Context, oldTicket, newTicket *tickets.Ticket, totalPaid float64)
}

// Workflow orchestrates the whole ticket change: eligibility, target
// validation, amount computation, the optional payment suspension, and the
// atomic apply.
type Workflow interface {
	CheckEligibility(ctx context.Context, ticketID uuid.UUID) (*Eligibility, error)
	QuoteChange(ctx context.Context, ticketID, newTripID uuid.UUID, newClass *trips.SeatClass) (*ChangeQuote, error)

	// InitiateChange runs the workflow up to the payment gate. A zero-due
	// change applies immediately; otherwise the pending intent is persisted
	// and the caller redirects the customer to the returned URL.
	InitiateChange(ctx context.Context, ticketID, newTripID uuid.UUID, newClass *trips.SeatClass, reason string, clientIP string) (*InitiateResult, error)

	// HandlePaymentCallback resumes a suspended change from a verified
	// gateway callback. The intent is consumed whether the payment
	// succeeded or not; a failed payment leaves the ticket untouched.
	HandlePaymentCallback(ctx context.Context, params url.Values) (*ApplyResult, error)

	ListHistory(ctx context.Context, ticketID uuid.UUID) ([]TicketChangeHistory, error)
}

type workflow struct {
	ticketRepo  tickets.Repository
	tripRepo    trips.Repository
	eligibility EligibilityChecker
	calculator  AmountCalculator
	repo        Repository
	intents     IntentStore
	gateway     payments.Gateway
	events      EventPublisher
	cfg         *config.Config
}

func NewWorkflow(
	ticketRepo tickets.Repository,
	tripRepo trips.Repository,
	eligibility EligibilityChecker,
	calculator AmountCalculator,
	repo Repository,
	intents IntentStore,
	gateway payments.Gateway,
	events EventPublisher,
	cfg *config.Config,
) Workflow {
	return &workflow{
		ticketRepo:  ticketRepo,
		tripRepo:    tripRepo,
		eligibility: eligibility,
		calculator:  calculator,
		repo:        repo,
		intents:     intents,
		gateway:     gateway,
		events:      events,
		cfg:         cfg,
	}
}

func (w *workflow) CheckEligibility(ctx context.Context, ticketID uuid.UUID) (*Eligibility, error) {
	ticket, err := w.ticketRepo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return w.eligibility.Check(ctx, ticket)
}

func (w *workflow) QuoteChange(ctx context.Context, ticketID, newTripID uuid.UUID, newClass *trips.SeatClass) (*ChangeQuote, error) {
	ticket, originalTrip, newTrip, eligibility, err := w.prepare(ctx, ticketID, newTripID, newClass)
	if err != nil {
		return nil, err
	}
	if !eligibility.Allowed {
		return &ChangeQuote{Eligibility: eligibility}, nil
	}

	amount, err := w.calculator.TotalChangeAmount(ctx, ticket, originalTrip, newTrip, newClass)
	if err != nil {
		return nil, err
	}
	return &ChangeQuote{Eligibility: eligibility, Amount: amount}, nil
}

func (w *workflow) InitiateChange(ctx context.Context, ticketID, newTripID uuid.UUID, newClass *trips.SeatClass, reason string, clientIP string) (*InitiateResult, error) {
	ticket, originalTrip, newTrip, eligibility, err := w.prepare(ctx, ticketID, newTripID, newClass)
	if err != nil {
		return nil, err
	}
	if !eligibility.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrChangeNotAllowed, eligibility.Reason)
	}

	targetClass := ticket.SeatClass
	if newClass != nil {
		targetClass = *newClass
	}
	remaining, ok := newTrip.RemainingSeats(targetClass)
	if !ok {
		return nil, fmt.Errorf("unknown seat class: %s", targetClass)
	}
	if remaining <= 0 {
		return nil, ErrClassSoldOut
	}

	amount, err := w.calculator.TotalChangeAmount(ctx, ticket, originalTrip, newTrip, newClass)
	if err != nil {
		return nil, err
	}

	// Zero due means no payment gate: apply right away.
	if amount.TotalDue == 0 {
		applied, err := w.apply(ctx, ticket, ApplyParams{
			OriginalTicketID: ticket.ID,
			NewTripID:        newTrip.ID,
			NewSeatClass:     targetClass,
			Reason:           reason,
			ChangeFee:        amount.ChangeFee,
			PriceDifference:  amount.PriceDifference,
			TotalDue:         0,
		})
		if err != nil {
			return nil, err
		}
		return &InitiateResult{Applied: applied}, nil
	}

	// Payment gate: persist the intent and suspend until the callback.
	token, err := NewIntentToken()
	if err != nil {
		return nil, err
	}
	intent := &PendingChange{
		Token:           token,
		TicketID:        ticket.ID,
		UserID:          ticket.UserID,
		NewTripID:       newTrip.ID,
		NewSeatClass:    targetClass,
		Reason:          reason,
		ChangeFee:       amount.ChangeFee,
		PriceDifference: amount.PriceDifference,
		TotalDue:        amount.TotalDue,
		CreatedAt:       time.Now(),
	}
	if err := w.intents.Create(ctx, intent); err != nil {
		return nil, err
	}

	paymentURL, err := w.gateway.CreatePaymentURL(payments.PaymentRequest{
		Token:     token,
		Amount:    amount.TotalDue,
		OrderInfo: fmt.Sprintf("Ticket change for PNR %s", ticket.PNR),
		ClientIP:  clientIP,
	})
	if err != nil {
		// The intent will expire on its own; no state to unwind.
		return nil, fmt.Errorf("failed to create payment url: %w", err)
	}

	return &InitiateResult{PaymentURL: paymentURL}, nil
}

func (w *workflow) HandlePaymentCallback(ctx context.Context, params url.Values) (*ApplyResult, error) {
	result, err := w.gateway.ParseCallback(params)
	if err != nil {
		return nil, err
	}

	intent, err := w.intents.GetByToken(ctx, result.Token)
	if err != nil {
		return nil, err
	}

	logger.GetDefault().LogPaymentCallback(ctx, result.TxnRef, result.Success)

	if !result.Success {
		// Declined or abandoned: drop the intent, leave the ticket as it was.
		if err := w.intents.Consume(ctx, intent); err != nil {
			return nil, err
		}
		return nil, ErrPaymentDeclined
	}

	// Tolerate sub-cent drift from the currency round trip.
	if result.Amount < intent.TotalDue-0.01 {
		return nil, ErrAmountMismatch
	}

	ticket, err := w.ticketRepo.GetTicketByID(ctx, intent.TicketID)
	if err != nil {
		return nil, err
	}

	applied, err := w.apply(ctx, ticket, ApplyParams{
		OriginalTicketID: intent.TicketID,
		NewTripID:        intent.NewTripID,
		NewSeatClass:     intent.NewSeatClass,
		Reason:           intent.Reason,
		ChangeFee:        intent.ChangeFee,
		PriceDifference:  intent.PriceDifference,
		TotalDue:         intent.TotalDue,
		PaymentTxnRef:    result.TxnRef,
		PaymentMethod:    "GATEWAY",
		PaymentCurrency:  w.cfg.Payment.GatewayCurrency,
	})
	if err != nil {
		return nil, err
	}

	// Consume only after the apply committed so a transient DB failure
	// leaves the intent replayable until it expires.
	if err := w.intents.Consume(ctx, intent); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to consume pending change intent", err, map[string]interface{}{
			"ticket_id": intent.TicketID.String(),
		})
	}

	return applied, nil
}

func (w *workflow) ListHistory(ctx context.Context, ticketID uuid.UUID) ([]TicketChangeHistory, error) {
	return w.repo.ListHistoryForTicket(ctx, ticketID)
}

// prepare loads the ticket, both trips, and a fresh eligibility verdict.
func (w *workflow) prepare(ctx context.Context, ticketID, newTripID uuid.UUID, newClass *trips.SeatClass) (*tickets.Ticket, *trips.Trip, *trips.Trip, *Eligibility, error) {
	ticket, err := w.ticketRepo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	eligibility, err := w.eligibility.Check(ctx, ticket)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if !eligibility.Allowed {
		return ticket, nil, nil, eligibility, nil
	}

	originalTrip, err := w.tripRepo.GetTripByID(ctx, ticket.TripID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	newTrip, err := w.tripRepo.GetTripByID(ctx, newTripID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if newClass != nil && !newClass.Valid() {
		return nil, nil, nil, nil, fmt.Errorf("unknown seat class: %s", *newClass)
	}

	return ticket, originalTrip, newTrip, eligibility, nil
}

func (w *workflow) apply(ctx context.Context, original *tickets.Ticket, params ApplyParams) (*ApplyResult, error) {
	newTicket, history, err := w.repo.ApplyChange(ctx, params)
	if err != nil {
		return nil, err
	}

	// The transaction moved a seat counter on each trip; drop both cached
	// detail entries so availability reads reflect the new counts.
	for _, tripID := range []uuid.UUID{original.TripID, params.NewTripID} {
		if err := w.tripRepo.InvalidateTrip(ctx, tripID); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "failed to invalidate trip cache", err,
				map[string]interface{}{"trip_id": tripID.String()})
		}
	}

	logger.GetDefault().LogTicketChanged(ctx, original.ID.String(), newTicket.ID.String(), params.TotalDue)
	if w.events != nil {
		w.events.PublishTicketChanged(ctx, original, newTicket, params.TotalDue)
	}

	return &ApplyResult{NewTicket: newTicket, History: history}, nil
}
