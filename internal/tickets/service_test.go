package tickets

import (
	"context"
	"testing"
	"time"

	"aerobook/internal/shared/config"
	"aerobook/internal/trips"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	tickets map[uuid.UUID]*Ticket
}

func (f *fakeRepo) PNRExists(ctx context.Context, pnr string) (bool, error) { return false, nil }

func (f *fakeRepo) GetTicketByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	if t, ok := f.tickets[id]; ok {
		return t, nil
	}
	return nil, ErrTicketNotFound
}

func (f *fakeRepo) GetTicketByPNRAndEmail(ctx context.Context, pnr, email string) (*Ticket, error) {
	for _, t := range f.tickets {
		if t.PNR == pnr && t.ContactEmail == email {
			return t, nil
		}
	}
	return nil, ErrTicketNotFound
}

func (f *fakeRepo) CreateTicket(ctx context.Context, ticket *Ticket) error {
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeRepo) ListBookedSeats(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) ([]string, error) {
	return nil, nil
}

func (f *fakeRepo) IsSeatTaken(ctx context.Context, tripID uuid.UUID, class trips.SeatClass, seatNumber string) (bool, error) {
	return false, nil
}

func (f *fakeRepo) CheckIn(ctx context.Context, id uuid.UUID, validate func(*Ticket) error) (*Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if err := validate(ticket); err != nil {
		return nil, err
	}
	ticket.MarkCheckedIn()
	return ticket, nil
}

type fakeTripRepo struct {
	trip *trips.Trip
}

func (f *fakeTripRepo) GetTripByID(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	if f.trip == nil {
		return nil, trips.ErrTripNotFound
	}
	return f.trip, nil
}

func (f *fakeTripRepo) GetRouteDiscount(ctx context.Context, airline, fromCity, toCity string) (float64, error) {
	return 0, nil
}

func (f *fakeTripRepo) InvalidateTrip(ctx context.Context, id uuid.UUID) error {
	return nil
}

type countingPublisher struct {
	checkedIn int
}

func (c *countingPublisher) PublishCheckedIn(ctx context.Context, ticketID, tripID uuid.UUID) {
	c.checkedIn++
}

func checkInFixture(departIn time.Duration) (Service, *Ticket, *countingPublisher) {
	trip := &trips.Trip{
		ID:            uuid.New(),
		Airline:       "VietJet Air",
		DepartureTime: time.Now().Add(departIn),
	}
	ticket := &Ticket{
		ID:           uuid.New(),
		TripID:       trip.ID,
		PNR:          "X7K2MP",
		ContactEmail: "linh@example.com",
	}

	repo := &fakeRepo{tickets: map[uuid.UUID]*Ticket{ticket.ID: ticket}}
	publisher := &countingPublisher{}
	cfg := &config.Config{
		Change: config.ChangeConfig{CheckInWindow: 24 * time.Hour},
	}
	return NewService(repo, &fakeTripRepo{trip: trip}, cfg, publisher), ticket, publisher
}

func TestCheckIn_Success(t *testing.T) {
	svc, ticket, publisher := checkInFixture(10 * time.Hour)

	checked, err := svc.CheckIn(context.Background(), ticket.ID)

	require.NoError(t, err)
	assert.True(t, checked.IsCheckedIn)
	assert.NotNil(t, checked.CheckedInAt)
	assert.Equal(t, 1, publisher.checkedIn)
}

func TestCheckIn_CancelledTicket(t *testing.T) {
	svc, ticket, publisher := checkInFixture(10 * time.Hour)
	ticket.Cancel("changed by user")

	_, err := svc.CheckIn(context.Background(), ticket.ID)

	assert.ErrorIs(t, err, ErrCheckInCancelled)
	assert.Zero(t, publisher.checkedIn)
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	svc, ticket, _ := checkInFixture(10 * time.Hour)
	ticket.MarkCheckedIn()

	_, err := svc.CheckIn(context.Background(), ticket.ID)

	assert.ErrorIs(t, err, ErrCheckInAlready)
}

func TestCheckIn_AfterDeparture(t *testing.T) {
	svc, ticket, _ := checkInFixture(-1 * time.Hour)

	_, err := svc.CheckIn(context.Background(), ticket.ID)

	assert.ErrorIs(t, err, ErrCheckInDeparted)
}

func TestCheckIn_WindowNotOpenYet(t *testing.T) {
	svc, ticket, _ := checkInFixture(48 * time.Hour)

	_, err := svc.CheckIn(context.Background(), ticket.ID)

	assert.ErrorIs(t, err, ErrCheckInWindowNotOpen)
}

func TestCheckIn_CancelledWinsOverTimeChecks(t *testing.T) {
	// A cancelled ticket after departure reports "cancelled", the more
	// specific permanent state.
	svc, ticket, _ := checkInFixture(-1 * time.Hour)
	ticket.Cancel("changed by user")

	_, err := svc.CheckIn(context.Background(), ticket.ID)

	assert.ErrorIs(t, err, ErrCheckInCancelled)
}

func TestLookupByPNR_BadFormat(t *testing.T) {
	svc, _, _ := checkInFixture(10 * time.Hour)

	_, err := svc.LookupByPNR(context.Background(), "TOOLONG1", "linh@example.com")

	assert.Error(t, err)
}

func TestLookupByPNR_Found(t *testing.T) {
	svc, ticket, _ := checkInFixture(10 * time.Hour)

	found, err := svc.LookupByPNR(context.Background(), "X7K2MP", "linh@example.com")

	require.NoError(t, err)
	assert.Equal(t, ticket.ID, found.ID)
}
