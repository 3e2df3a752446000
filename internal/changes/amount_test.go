package changes

import (
	"context"
	"testing"

	"aerobook/internal/fares"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amountFixture() (AmountCalculator, *tickets.Ticket, *trips.Trip) {
	repo := &stubTripRepo{trips: map[uuid.UUID]*trips.Trip{}}
	engine := fares.NewEngine(fares.DefaultChangeFeeTable(), repo)
	calc := NewAmountCalculator(engine)

	// Trip A: Economy $100 on VietJet, whose economy change fee is $15.
	tripA := &trips.Trip{
		ID:           uuid.New(),
		Airline:      "VietJet Air",
		EconomyPrice: 100,
	}
	ticket := &tickets.Ticket{
		ID:        uuid.New(),
		TripID:    tripA.ID,
		SeatClass: trips.ClassEconomy,
	}
	return calc, ticket, tripA
}

func TestTotalChangeAmount_Upgrade(t *testing.T) {
	calc, ticket, tripA := amountFixture()
	tripB := &trips.Trip{ID: uuid.New(), Airline: "VietJet Air", EconomyPrice: 120}

	amount, err := calc.TotalChangeAmount(context.Background(), ticket, tripA, tripB, nil)

	require.NoError(t, err)
	assert.Equal(t, 15.0, amount.ChangeFee)
	assert.Equal(t, 20.0, amount.PriceDifference)
	assert.Equal(t, 35.0, amount.TotalDue)
	assert.Zero(t, amount.RefundAmount)
}

func TestTotalChangeAmount_DowngradeNeverRefunds(t *testing.T) {
	// Choosing a cheaper replacement still costs the full flat fee and
	// never pays money back. This asymmetry is the business policy.
	calc, ticket, tripA := amountFixture()
	tripC := &trips.Trip{ID: uuid.New(), Airline: "VietJet Air", EconomyPrice: 80}

	amount, err := calc.TotalChangeAmount(context.Background(), ticket, tripA, tripC, nil)

	require.NoError(t, err)
	assert.Equal(t, 15.0, amount.ChangeFee)
	assert.Equal(t, -20.0, amount.PriceDifference)
	assert.Equal(t, 15.0, amount.TotalDue, "fee only, never a negative due")
	assert.Zero(t, amount.RefundAmount, "refund is always zero by policy")
}

func TestTotalChangeAmount_SamePrice(t *testing.T) {
	calc, ticket, tripA := amountFixture()
	tripB := &trips.Trip{ID: uuid.New(), Airline: "VietJet Air", EconomyPrice: 100}

	amount, err := calc.TotalChangeAmount(context.Background(), ticket, tripA, tripB, nil)

	require.NoError(t, err)
	assert.Zero(t, amount.PriceDifference)
	assert.Equal(t, 15.0, amount.TotalDue)
}

func TestPriceDifference_TargetClassDefaultsToOriginal(t *testing.T) {
	calc, ticket, tripA := amountFixture()
	tripB := &trips.Trip{ID: uuid.New(), Airline: "VietJet Air", EconomyPrice: 130, BusinessPrice: 300}

	diff, err := calc.PriceDifference(context.Background(), ticket, tripA, tripB, nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, diff)

	business := trips.ClassBusiness
	diff, err = calc.PriceDifference(context.Background(), ticket, tripA, tripB, &business)
	require.NoError(t, err)
	assert.Equal(t, 200.0, diff)
}

func TestTotalChangeAmount_UnknownClassIsError(t *testing.T) {
	calc, ticket, tripA := amountFixture()
	tripB := &trips.Trip{ID: uuid.New(), Airline: "VietJet Air", EconomyPrice: 120}
	bogus := trips.SeatClass("Premium")

	_, err := calc.TotalChangeAmount(context.Background(), ticket, tripA, tripB, &bogus)

	assert.Error(t, err)
}
