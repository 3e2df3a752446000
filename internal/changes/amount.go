package changes

import (
	"context"

	"aerobook/internal/fares"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"
)

// ChangeAmount is the money side of a quoted change. RefundAmount is kept
// in the shape even though policy pins it to zero, so the response format
// is explicit about it rather than silently omitting the field.
type ChangeAmount struct {
	ChangeFee       float64 `json:"change_fee"`
	PriceDifference float64 `json:"price_difference"`
	TotalDue        float64 `json:"total_due"`
	RefundAmount    float64 `json:"refund_amount"`
}

// AmountCalculator prices a proposed change under the no-refund policy.
type AmountCalculator interface {
	// PriceDifference returns new price minus old price, signed. A nil
	// newClass means "keep the original ticket's class".
	PriceDifference(ctx context.Context, ticket *tickets.Ticket, originalTrip, newTrip *trips.Trip, newClass *trips.SeatClass) (float64, error)

	// TotalChangeAmount composes fee and difference. The customer never
	// pays less than the flat fee and never receives money back when the
	// replacement is cheaper: RefundAmount is always zero.
	TotalChangeAmount(ctx context.Context, ticket *tickets.Ticket, originalTrip, newTrip *trips.Trip, newClass *trips.SeatClass) (*ChangeAmount, error)
}

type amountCalculator struct {
	engine fares.Engine
}

func NewAmountCalculator(engine fares.Engine) AmountCalculator {
	return &amountCalculator{engine: engine}
}

func (a *amountCalculator) PriceDifference(ctx context.Context, ticket *tickets.Ticket, originalTrip, newTrip *trips.Trip, newClass *trips.SeatClass) (float64, error) {
	targetClass := ticket.SeatClass
	if newClass != nil {
		targetClass = *newClass
	}

	newPrice, err := a.engine.PriceFor(newTrip, targetClass)
	if err != nil {
		return 0, err
	}
	oldPrice, err := a.engine.PriceFor(originalTrip, ticket.SeatClass)
	if err != nil {
		return 0, err
	}
	return newPrice - oldPrice, nil
}

func (a *amountCalculator) TotalChangeAmount(ctx context.Context, ticket *tickets.Ticket, originalTrip, newTrip *trips.Trip, newClass *trips.SeatClass) (*ChangeAmount, error) {
	diff, err := a.PriceDifference(ctx, ticket, originalTrip, newTrip, newClass)
	if err != nil {
		return nil, err
	}

	fee, err := a.engine.ChangeFeeFor(originalTrip.Airline, ticket.SeatClass)
	if err != nil {
		return nil, err
	}

	totalDue := fee
	if diff > 0 {
		totalDue += diff
	}

	return &ChangeAmount{
		ChangeFee:       fee,
		PriceDifference: diff,
		TotalDue:        totalDue,
		RefundAmount:    0,
	}, nil
}
