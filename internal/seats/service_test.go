package seats

import (
	"context"
	"testing"
	"time"

	"aerobook/internal/tickets"
	"aerobook/internal/trips"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSeatRepo struct {
	bookedSeats []string
	assignErr   error
	assigned    *tickets.Ticket

	lastTicketID uuid.UUID
	lastSeat     string
}

func (m *mockSeatRepo) ListBookedSeats(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) ([]string, error) {
	return m.bookedSeats, nil
}

func (m *mockSeatRepo) AssignSeat(ctx context.Context, ticketID uuid.UUID, seatNumber string) (*tickets.Ticket, error) {
	m.lastTicketID = ticketID
	m.lastSeat = seatNumber
	if m.assignErr != nil {
		return nil, m.assignErr
	}
	return m.assigned, nil
}

type mockTripRepo struct {
	trip        *trips.Trip
	tripErr     error
	discount    float64
	discountErr error
}

func (m *mockTripRepo) GetTripByID(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	if m.tripErr != nil {
		return nil, m.tripErr
	}
	return m.trip, nil
}

func (m *mockTripRepo) GetRouteDiscount(ctx context.Context, airline, fromCity, toCity string) (float64, error) {
	return m.discount, m.discountErr
}

func (m *mockTripRepo) InvalidateTrip(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testTrip() *trips.Trip {
	return &trips.Trip{
		ID:            uuid.New(),
		Airline:       "VietJet Air",
		FlightNumber:  "VJ123",
		FromCity:      "Hanoi",
		ToCity:        "Da Nang",
		DepartureTime: time.Now().Add(48 * time.Hour),
		ArrivalTime:   time.Now().Add(50 * time.Hour),

		EconomyPrice:    100,
		BusinessPrice:   250,
		FirstClassPrice: 400,

		EconomySeats:    10,
		BusinessSeats:   4,
		FirstClassSeats: 2,

		EconomyCapacity:    12,
		BusinessCapacity:   8,
		FirstClassCapacity: 4,
	}
}

func TestGetSeatMap(t *testing.T) {
	trip := testTrip()
	repo := &mockSeatRepo{bookedSeats: []string{"1A", "2C"}}
	svc := NewService(repo, &mockTripRepo{trip: trip})

	m, err := svc.GetSeatMap(context.Background(), trip.ID, trips.ClassEconomy)

	require.NoError(t, err)
	assert.Equal(t, 12, m.TotalSeats) // capacity, not remaining
	available := 0
	for _, seat := range m.Seats {
		if seat.IsAvailable {
			available++
		}
	}
	assert.Equal(t, 10, available)
}

func TestGetSeatMap_UnknownClass(t *testing.T) {
	svc := NewService(&mockSeatRepo{}, &mockTripRepo{trip: testTrip()})

	_, err := svc.GetSeatMap(context.Background(), uuid.New(), trips.SeatClass("Premium"))

	assert.Error(t, err)
}

func TestGetSeatMap_TripNotFound(t *testing.T) {
	svc := NewService(&mockSeatRepo{}, &mockTripRepo{tripErr: trips.ErrTripNotFound})

	_, err := svc.GetSeatMap(context.Background(), uuid.New(), trips.ClassEconomy)

	assert.ErrorIs(t, err, trips.ErrTripNotFound)
}

func TestAssignSeat(t *testing.T) {
	ticketID := uuid.New()
	assigned := &tickets.Ticket{ID: ticketID, TripID: uuid.New(), SeatNumber: "2B"}
	repo := &mockSeatRepo{assigned: assigned}
	svc := NewService(repo, &mockTripRepo{trip: testTrip()})

	ticket, err := svc.AssignSeat(context.Background(), ticketID, "2B")

	require.NoError(t, err)
	assert.Equal(t, "2B", ticket.SeatNumber)
	assert.Equal(t, ticketID, repo.lastTicketID)
}

func TestAssignSeat_ErrorsPropagate(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"seat taken", ErrSeatTaken},
		{"invalid seat", ErrInvalidSeat},
		{"ticket not found", ErrTicketNotFound},
		{"ticket cancelled", ErrTicketInactive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockSeatRepo{assignErr: tc.err}
			svc := NewService(repo, &mockTripRepo{trip: testTrip()})

			_, err := svc.AssignSeat(context.Background(), uuid.New(), "1A")

			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestChangeSeat_DelegatesToAssign(t *testing.T) {
	assigned := &tickets.Ticket{ID: uuid.New(), TripID: uuid.New(), SeatNumber: "3C"}
	repo := &mockSeatRepo{assigned: assigned}
	svc := NewService(repo, &mockTripRepo{trip: testTrip()})

	ticket, err := svc.ChangeSeat(context.Background(), assigned.ID, "3C")

	require.NoError(t, err)
	assert.Equal(t, "3C", ticket.SeatNumber)
	assert.Equal(t, "3C", repo.lastSeat)
}
