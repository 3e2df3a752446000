package fares

import (
	"context"
	"testing"

	"aerobook/internal/trips"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTripRepo struct {
	discount    float64
	discountErr error
	lastAirline string
	lastFrom    string
	lastTo      string
}

func (s *stubTripRepo) GetTripByID(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	return nil, trips.ErrTripNotFound
}

func (s *stubTripRepo) GetRouteDiscount(ctx context.Context, airline, fromCity, toCity string) (float64, error) {
	s.lastAirline = airline
	s.lastFrom = fromCity
	s.lastTo = toCity
	return s.discount, s.discountErr
}

func (s *stubTripRepo) InvalidateTrip(ctx context.Context, id uuid.UUID) error {
	return nil
}

func newTrip(airline string, economy, business, first float64, discount float64) *trips.Trip {
	return &trips.Trip{
		ID:                       uuid.New(),
		Airline:                  airline,
		FromCity:                 "Hanoi",
		ToCity:                   "Saigon",
		EconomyPrice:             economy,
		BusinessPrice:            business,
		FirstClassPrice:          first,
		RoundTripDiscountPercent: discount,
	}
}

func TestPriceFor(t *testing.T) {
	e := NewEngine(DefaultChangeFeeTable(), &stubTripRepo{})
	trip := newTrip("VietJet Air", 100, 250, 400, 0)

	price, err := e.PriceFor(trip, trips.ClassBusiness)
	require.NoError(t, err)
	assert.Equal(t, 250.0, price)
}

func TestPriceFor_UnknownClassIsError(t *testing.T) {
	e := NewEngine(DefaultChangeFeeTable(), &stubTripRepo{})
	trip := newTrip("VietJet Air", 100, 250, 400, 0)

	_, err := e.PriceFor(trip, trips.SeatClass("Premium"))
	assert.Error(t, err, "unknown class must never fall back to a default price")
}

func TestChangeFeeFor_KnownAirlines(t *testing.T) {
	e := NewEngine(DefaultChangeFeeTable(), &stubTripRepo{})

	fee, err := e.ChangeFeeFor("VietJet Air", trips.ClassEconomy)
	require.NoError(t, err)
	assert.Equal(t, 15.0, fee)

	// Substring match is case-insensitive and tolerates marketing names.
	fee, err = e.ChangeFeeFor("VIETJET AVIATION JSC", trips.ClassEconomy)
	require.NoError(t, err)
	assert.Equal(t, 15.0, fee)

	fee, err = e.ChangeFeeFor("Vietnam Airlines", trips.ClassBusiness)
	require.NoError(t, err)
	assert.Equal(t, 40.0, fee)
}

func TestChangeFeeFor_UnknownAirlineUsesDefaultRow(t *testing.T) {
	e := NewEngine(DefaultChangeFeeTable(), &stubTripRepo{})

	fee, err := e.ChangeFeeFor("Some Regional Carrier", trips.ClassFirstClass)
	require.NoError(t, err)
	assert.Equal(t, 75.0, fee)
}

func TestRoundTripPrice_TripLevelDiscount(t *testing.T) {
	repo := &stubTripRepo{discount: 99} // must not be consulted
	e := NewEngine(DefaultChangeFeeTable(), repo)

	out := newTrip("VietJet Air", 100, 250, 400, 10)
	ret := newTrip("VietJet Air", 120, 280, 450, 0)

	b, err := e.RoundTripPrice(context.Background(), out, ret, trips.ClassEconomy, trips.ClassEconomy)
	require.NoError(t, err)

	assert.Equal(t, 100.0, b.OutboundPrice)
	assert.Equal(t, 120.0, b.ReturnPrice)
	assert.Equal(t, 220.0, b.Subtotal)
	assert.Equal(t, 10.0, b.DiscountPercent)
	// Discount on the combined subtotal, never per leg.
	assert.Equal(t, 22.0, b.DiscountAmount)
	assert.Equal(t, 198.0, b.TotalPrice)
	assert.Equal(t, 22.0, b.SavingsAmount)
	assert.Empty(t, repo.lastAirline, "route lookup must be skipped when the trip has a discount")
}

func TestRoundTripPrice_RouteFallback(t *testing.T) {
	repo := &stubTripRepo{discount: 5}
	e := NewEngine(DefaultChangeFeeTable(), repo)

	out := newTrip("Bamboo Airways", 200, 500, 800, 0)
	ret := newTrip("Bamboo Airways", 200, 500, 800, 0)

	b, err := e.RoundTripPrice(context.Background(), out, ret, trips.ClassBusiness, trips.ClassBusiness)
	require.NoError(t, err)

	assert.Equal(t, 5.0, b.DiscountPercent)
	assert.Equal(t, 50.0, b.DiscountAmount)
	assert.Equal(t, 950.0, b.TotalPrice)
	assert.Equal(t, "Bamboo Airways", repo.lastAirline)
	assert.Equal(t, "Hanoi", repo.lastFrom)
	assert.Equal(t, "Saigon", repo.lastTo)
}

func TestRoundTripPrice_NoDiscountAnywhere(t *testing.T) {
	e := NewEngine(DefaultChangeFeeTable(), &stubTripRepo{discount: 0})

	out := newTrip("Bamboo Airways", 200, 500, 800, 0)
	ret := newTrip("Bamboo Airways", 150, 400, 700, 0)

	b, err := e.RoundTripPrice(context.Background(), out, ret, trips.ClassEconomy, trips.ClassFirstClass)
	require.NoError(t, err)

	assert.Equal(t, 900.0, b.Subtotal)
	assert.Zero(t, b.DiscountPercent)
	assert.Zero(t, b.DiscountAmount)
	assert.Equal(t, 900.0, b.TotalPrice)
}
