package changes

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"aerobook/internal/payments"
	"aerobook/internal/shared/config"
	"aerobook/internal/tickets"
	"aerobook/internal/trips"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTicketRepo struct {
	tickets map[uuid.UUID]*tickets.Ticket
}

func (m *mockTicketRepo) PNRExists(ctx context.Context, pnr string) (bool, error) {
	return false, nil
}

func (m *mockTicketRepo) GetTicketByID(ctx context.Context, id uuid.UUID) (*tickets.Ticket, error) {
	if t, ok := m.tickets[id]; ok {
		return t, nil
	}
	return nil, tickets.ErrTicketNotFound
}

func (m *mockTicketRepo) GetTicketByPNRAndEmail(ctx context.Context, pnr, email string) (*tickets.Ticket, error) {
	return nil, tickets.ErrTicketNotFound
}

func (m *mockTicketRepo) CreateTicket(ctx context.Context, ticket *tickets.Ticket) error {
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockTicketRepo) ListBookedSeats(ctx context.Context, tripID uuid.UUID, class trips.SeatClass) ([]string, error) {
	return nil, nil
}

func (m *mockTicketRepo) IsSeatTaken(ctx context.Context, tripID uuid.UUID, class trips.SeatClass, seatNumber string) (bool, error) {
	return false, nil
}

func (m *mockTicketRepo) CheckIn(ctx context.Context, id uuid.UUID, validate func(*tickets.Ticket) error) (*tickets.Ticket, error) {
	return nil, tickets.ErrTicketNotFound
}

type stubEligibility struct {
	result *Eligibility
}

func (s *stubEligibility) Check(ctx context.Context, ticket *tickets.Ticket) (*Eligibility, error) {
	return s.result, nil
}

type stubCalculator struct {
	amount *ChangeAmount
}

func (s *stubCalculator) PriceDifference(ctx context.Context, ticket *tickets.Ticket, originalTrip, newTrip *trips.Trip, newClass *trips.SeatClass) (float64, error) {
	return s.amount.PriceDifference, nil
}

func (s *stubCalculator) TotalChangeAmount(ctx context.Context, ticket *tickets.Ticket, originalTrip, newTrip *trips.Trip, newClass *trips.SeatClass) (*ChangeAmount, error) {
	return s.amount, nil
}

type mockChangeRepo struct {
	applyCalls []ApplyParams
	applyErr   error
	newTicket  *tickets.Ticket
	history    *TicketChangeHistory
}

func (m *mockChangeRepo) ApplyChange(ctx context.Context, params ApplyParams) (*tickets.Ticket, *TicketChangeHistory, error) {
	if m.applyErr != nil {
		return nil, nil, m.applyErr
	}
	m.applyCalls = append(m.applyCalls, params)
	return m.newTicket, m.history, nil
}

func (m *mockChangeRepo) ListHistoryForTicket(ctx context.Context, ticketID uuid.UUID) ([]TicketChangeHistory, error) {
	if m.history == nil {
		return nil, nil
	}
	return []TicketChangeHistory{*m.history}, nil
}

type mockGateway struct {
	urlCalls       []payments.PaymentRequest
	callbackResult *payments.CallbackResult
	callbackErr    error
}

func (m *mockGateway) CreatePaymentURL(req payments.PaymentRequest) (string, error) {
	m.urlCalls = append(m.urlCalls, req)
	return "https://gateway.example/pay?ref=" + req.Token, nil
}

func (m *mockGateway) ParseCallback(params url.Values) (*payments.CallbackResult, error) {
	if m.callbackErr != nil {
		return nil, m.callbackErr
	}
	return m.callbackResult, nil
}

type recordingPublisher struct {
	changed int
}

func (r *recordingPublisher) PublishTicketChanged(ctx context.Context, oldTicket, newTicket *tickets.Ticket, totalPaid float64) {
	r.changed++
}

type workflowFixture struct {
	workflow   Workflow
	ticketRepo *mockTicketRepo
	tripRepo   *stubTripRepo
	changeRepo *mockChangeRepo
	intents    IntentStore
	gateway    *mockGateway
	events     *recordingPublisher

	ticket  *tickets.Ticket
	oldTrip *trips.Trip
	newTrip *trips.Trip
}

func newWorkflowFixture(t *testing.T, amount *ChangeAmount) *workflowFixture {
	t.Helper()

	oldTrip := &trips.Trip{
		ID:            uuid.New(),
		Airline:       "VietJet Air",
		DepartureTime: time.Now().Add(72 * time.Hour),
		EconomyPrice:  100,
		EconomySeats:  5,
	}
	newTrip := &trips.Trip{
		ID:            uuid.New(),
		Airline:       "VietJet Air",
		DepartureTime: time.Now().Add(96 * time.Hour),
		EconomyPrice:  120,
		EconomySeats:  3,
	}
	ticket := &tickets.Ticket{
		ID:            uuid.New(),
		TripID:        oldTrip.ID,
		UserID:        uuid.New(),
		SeatClass:     trips.ClassEconomy,
		PassengerName: "Linh Tran",
		PNR:           "X7K2MP",
		TotalPrice:    100,
	}

	ticketRepo := &mockTicketRepo{tickets: map[uuid.UUID]*tickets.Ticket{ticket.ID: ticket}}
	tripRepo := &stubTripRepo{trips: map[uuid.UUID]*trips.Trip{oldTrip.ID: oldTrip, newTrip.ID: newTrip}}
	changeRepo := &mockChangeRepo{
		newTicket: &tickets.Ticket{ID: uuid.New(), TripID: newTrip.ID, PNR: "N3W4BC"},
		history:   &TicketChangeHistory{ID: uuid.New()},
	}
	intents := NewIntentStore(newFakeCache(), 30*time.Minute)
	gateway := &mockGateway{}
	events := &recordingPublisher{}

	cfg := &config.Config{
		Payment: config.PaymentConfig{GatewayCurrency: "VND"},
	}

	wf := NewWorkflow(
		ticketRepo,
		tripRepo,
		&stubEligibility{result: &Eligibility{Allowed: true, ChangeFee: amount.ChangeFee}},
		&stubCalculator{amount: amount},
		changeRepo,
		intents,
		gateway,
		events,
		cfg,
	)

	return &workflowFixture{
		workflow:   wf,
		ticketRepo: ticketRepo,
		tripRepo:   tripRepo,
		changeRepo: changeRepo,
		intents:    intents,
		gateway:    gateway,
		events:     events,
		ticket:     ticket,
		oldTrip:    oldTrip,
		newTrip:    newTrip,
	}
}

func TestInitiateChange_ZeroDueAppliesImmediately(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 0, PriceDifference: -20, TotalDue: 0})

	result, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")

	require.NoError(t, err)
	assert.Empty(t, result.PaymentURL)
	require.NotNil(t, result.Applied)
	require.Len(t, fx.changeRepo.applyCalls, 1)

	params := fx.changeRepo.applyCalls[0]
	assert.Equal(t, fx.ticket.ID, params.OriginalTicketID)
	assert.Equal(t, fx.newTrip.ID, params.NewTripID)
	assert.Equal(t, trips.ClassEconomy, params.NewSeatClass)
	assert.Zero(t, params.TotalDue)
	assert.Empty(t, fx.gateway.urlCalls, "no payment redirect for a zero-due change")
	assert.Equal(t, 1, fx.events.changed)

	// Both trips' seat counters moved, so both cached details must be
	// dropped or availability reads serve stale counts.
	assert.ElementsMatch(t, []uuid.UUID{fx.oldTrip.ID, fx.newTrip.ID}, fx.tripRepo.invalidated)
}

func TestInitiateChange_PaidChangeSuspendsOnPaymentGate(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})

	result, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "earlier flight", "10.0.0.1")

	require.NoError(t, err)
	assert.Contains(t, result.PaymentURL, "https://gateway.example/pay")
	assert.Nil(t, result.Applied)
	assert.Empty(t, fx.changeRepo.applyCalls, "nothing may be applied before the callback")

	// The suspended state is persisted against the ticket.
	intent, err := fx.intents.GetByTicket(context.Background(), fx.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 35.0, intent.TotalDue)
	assert.Equal(t, fx.newTrip.ID, intent.NewTripID)
	assert.Equal(t, "earlier flight", intent.Reason)

	require.Len(t, fx.gateway.urlCalls, 1)
	assert.Equal(t, intent.Token, fx.gateway.urlCalls[0].Token)
	assert.Equal(t, 35.0, fx.gateway.urlCalls[0].Amount)
}

func TestInitiateChange_DeniedByEligibility(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, TotalDue: 15})
	wf := NewWorkflow(
		fx.ticketRepo, fx.tripRepo,
		&stubEligibility{result: &Eligibility{Allowed: false, Reason: "already checked in"}},
		&stubCalculator{amount: &ChangeAmount{}},
		fx.changeRepo, fx.intents, fx.gateway, fx.events,
		&config.Config{},
	)

	_, err := wf.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")

	assert.ErrorIs(t, err, ErrChangeNotAllowed)
	assert.Contains(t, err.Error(), "already checked in")
	assert.Empty(t, fx.changeRepo.applyCalls)
}

func TestInitiateChange_SoldOutTargetClass(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})
	fx.newTrip.EconomySeats = 0

	_, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")

	assert.ErrorIs(t, err, ErrClassSoldOut)
	assert.Empty(t, fx.changeRepo.applyCalls)
	assert.Empty(t, fx.gateway.urlCalls)
}

func TestHandlePaymentCallback_SuccessAppliesAndConsumesIntent(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})

	_, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")
	require.NoError(t, err)
	intent, err := fx.intents.GetByTicket(context.Background(), fx.ticket.ID)
	require.NoError(t, err)

	fx.gateway.callbackResult = &payments.CallbackResult{
		Token:   intent.Token,
		Success: true,
		Amount:  35,
		TxnRef:  "GW-0042",
	}

	result, err := fx.workflow.HandlePaymentCallback(context.Background(), url.Values{})

	require.NoError(t, err)
	require.NotNil(t, result.NewTicket)
	require.Len(t, fx.changeRepo.applyCalls, 1)

	params := fx.changeRepo.applyCalls[0]
	assert.Equal(t, 35.0, params.TotalDue)
	assert.Equal(t, "GW-0042", params.PaymentTxnRef)
	assert.Equal(t, "VND", params.PaymentCurrency)

	// Replays must find nothing.
	_, err = fx.intents.GetByToken(context.Background(), intent.Token)
	assert.ErrorIs(t, err, ErrIntentNotFound)
	assert.Equal(t, 1, fx.events.changed)
	assert.ElementsMatch(t, []uuid.UUID{fx.oldTrip.ID, fx.newTrip.ID}, fx.tripRepo.invalidated)
}

func TestHandlePaymentCallback_DeclinedLeavesTicketUntouched(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})

	_, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")
	require.NoError(t, err)
	intent, _ := fx.intents.GetByTicket(context.Background(), fx.ticket.ID)

	fx.gateway.callbackResult = &payments.CallbackResult{Token: intent.Token, Success: false}

	_, err = fx.workflow.HandlePaymentCallback(context.Background(), url.Values{})

	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Empty(t, fx.changeRepo.applyCalls, "declined payments never mutate anything")
	assert.Empty(t, fx.tripRepo.invalidated, "no counters moved, nothing to invalidate")

	// A declined payment's intent is consumed so the ticket is free for a
	// new attempt immediately.
	_, err = fx.intents.GetByTicket(context.Background(), fx.ticket.ID)
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestHandlePaymentCallback_InvalidSignatureRejected(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})
	_, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")
	require.NoError(t, err)

	fx.gateway.callbackErr = payments.ErrInvalidSignature

	_, err = fx.workflow.HandlePaymentCallback(context.Background(), url.Values{})

	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	assert.Empty(t, fx.changeRepo.applyCalls)

	// A forged callback must not burn the real intent.
	_, err = fx.intents.GetByTicket(context.Background(), fx.ticket.ID)
	assert.NoError(t, err)
}

func TestHandlePaymentCallback_AmountMismatch(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})
	_, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")
	require.NoError(t, err)
	intent, _ := fx.intents.GetByTicket(context.Background(), fx.ticket.ID)

	fx.gateway.callbackResult = &payments.CallbackResult{Token: intent.Token, Success: true, Amount: 20}

	_, err = fx.workflow.HandlePaymentCallback(context.Background(), url.Values{})

	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Empty(t, fx.changeRepo.applyCalls)
}

func TestHandlePaymentCallback_ApplyFailureKeepsIntentReplayable(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})
	_, err := fx.workflow.InitiateChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil, "", "10.0.0.1")
	require.NoError(t, err)
	intent, _ := fx.intents.GetByTicket(context.Background(), fx.ticket.ID)

	fx.gateway.callbackResult = &payments.CallbackResult{Token: intent.Token, Success: true, Amount: 35}
	fx.changeRepo.applyErr = errors.New("deadlock detected")

	_, err = fx.workflow.HandlePaymentCallback(context.Background(), url.Values{})

	require.Error(t, err)
	// The transaction rolled back; the intent survives so the gateway's
	// retry of the callback can complete the change.
	_, err = fx.intents.GetByToken(context.Background(), intent.Token)
	assert.NoError(t, err)
}

func TestCheckEligibility_UnknownTicket(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{})

	_, err := fx.workflow.CheckEligibility(context.Background(), uuid.New())

	assert.ErrorIs(t, err, tickets.ErrTicketNotFound)
}

func TestQuoteChange_DeniedHasNoAmount(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, TotalDue: 15})
	wf := NewWorkflow(
		fx.ticketRepo, fx.tripRepo,
		&stubEligibility{result: &Eligibility{Allowed: false, Reason: "ticket cancelled"}},
		&stubCalculator{amount: &ChangeAmount{}},
		fx.changeRepo, fx.intents, fx.gateway, fx.events,
		&config.Config{},
	)

	quote, err := wf.QuoteChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil)

	require.NoError(t, err)
	assert.False(t, quote.Eligibility.Allowed)
	assert.Nil(t, quote.Amount)
}

func TestQuoteChange_AllowedIncludesAmount(t *testing.T) {
	fx := newWorkflowFixture(t, &ChangeAmount{ChangeFee: 15, PriceDifference: 20, TotalDue: 35})

	quote, err := fx.workflow.QuoteChange(context.Background(), fx.ticket.ID, fx.newTrip.ID, nil)

	require.NoError(t, err)
	assert.True(t, quote.Eligibility.Allowed)
	require.NotNil(t, quote.Amount)
	assert.Equal(t, 35.0, quote.Amount.TotalDue)
	assert.Zero(t, quote.Amount.RefundAmount)
}
