package fares

import (
	"context"
	"fmt"

	"aerobook/internal/trips"
)

// Engine answers every pricing question the change workflow asks: base
// price per class, flat change fee per airline, and round-trip totals.
type Engine interface {
	// PriceFor returns the trip's base price for a class. Unknown classes
	// are an error, never a silent default price.
	PriceFor(trip *trips.Trip, class trips.SeatClass) (float64, error)

	// ChangeFeeFor returns the flat exchange fee for a ticket's airline
	// and class, independent of any price difference.
	ChangeFeeFor(airline string, class trips.SeatClass) (float64, error)

	RoundTripPrice(ctx context.Context, outbound, returnTrip *trips.Trip, outboundClass, returnClass trips.SeatClass) (*RoundTripBreakdown, error)
}

// RoundTripBreakdown itemizes a two-leg purchase. The discount applies to
// the combined subtotal, never per leg.
type RoundTripBreakdown struct {
	OutboundPrice   float64 `json:"outbound_price"`
	ReturnPrice     float64 `json:"return_price"`
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
	TotalPrice      float64 `json:"total_price"`
	SavingsAmount   float64 `json:"savings_amount"`
}

type engine struct {
	fees     *ChangeFeeTable
	tripRepo trips.Repository
}

func NewEngine(fees *ChangeFeeTable, tripRepo trips.Repository) Engine {
	return &engine{
		fees:     fees,
		tripRepo: tripRepo,
	}
}

func (e *engine) PriceFor(trip *trips.Trip, class trips.SeatClass) (float64, error) {
	price, ok := trip.PriceFor(class)
	if !ok {
		return 0, fmt.Errorf("unknown seat class: %s", class)
	}
	return price, nil
}

func (e *engine) ChangeFeeFor(airline string, class trips.SeatClass) (float64, error) {
	fee, ok := e.fees.FeeFor(airline, class)
	if !ok {
		return 0, fmt.Errorf("unknown seat class: %s", class)
	}
	return fee, nil
}

func (e *engine) RoundTripPrice(ctx context.Context, outbound, returnTrip *trips.Trip, outboundClass, returnClass trips.SeatClass) (*RoundTripBreakdown, error) {
	outPrice, err := e.PriceFor(outbound, outboundClass)
	if err != nil {
		return nil, err
	}
	retPrice, err := e.PriceFor(returnTrip, returnClass)
	if err != nil {
		return nil, err
	}

	subtotal := outPrice + retPrice

	// The outbound trip's stored discount wins. Zero cannot be told apart
	// from "never set" at the trip level, so fall through to the route
	// table before concluding there is no discount.
	discountPercent := outbound.RoundTripDiscountPercent
	if discountPercent == 0 {
		discountPercent, err = e.tripRepo.GetRouteDiscount(ctx, outbound.Airline, outbound.FromCity, outbound.ToCity)
		if err != nil {
			return nil, fmt.Errorf("route discount lookup failed: %w", err)
		}
	}

	discountAmount := subtotal * discountPercent / 100

	return &RoundTripBreakdown{
		OutboundPrice:   outPrice,
		ReturnPrice:     retPrice,
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		TotalPrice:      subtotal - discountAmount,
		SavingsAmount:   discountAmount,
	}, nil
}
