package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/events"
	"toolshare-booking-backend/internal/payment"
)

type checkoutFixture struct {
	draftRepo   *MockDraftRepo
	bookingRepo *MockBookingRepo
	toolRepo    *MockToolRepo
	gateway     *MockGateway
	bus         *events.Bus
	svc         CheckoutService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		draftRepo:   new(MockDraftRepo),
		bookingRepo: new(MockBookingRepo),
		toolRepo:    new(MockToolRepo),
		gateway:     new(MockGateway),
		bus:         events.NewBus(),
	}
	pricing := NewPricingService(nil, 6)
	drafts := NewDraftService(f.draftRepo, f.bookingRepo, f.toolRepo, pricing, 24*time.Hour, 5)
	bookings := NewBookingService(f.bookingRepo, f.toolRepo, f.bus)
	monitor := payment.NewChallengeMonitor(f.gateway, 5*time.Millisecond, 50*time.Millisecond)
	f.svc = NewCheckoutService(drafts, bookings, f.gateway, monitor, "USD")
	return f
}

var checkoutTool = &domain.Tool{
	ID:               1,
	OwnerID:          2,
	Title:            "Cordless Drill",
	PricePerDayCents: 2500,
	DepositCents:     7500,
	Currency:         "USD",
}

// arm prepares a valid submittable draft: 2 days at $25 plus $75 deposit,
// so the charge is 5000 + 300 + 7500 = 12800 cents.
func (f *checkoutFixture) arm(ctx context.Context) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)
	draft := &domain.BookingDraft{
		ToolID: 1, UserID: 7,
		StartDate: &start, EndDate: &end,
		PickupHour:    9,
		PaymentMethod: domain.PaymentMethodCard,
		SavedAt:       time.Now(),
	}
	f.draftRepo.On("DeleteOthers", mock.Anything, int32(7), int32(1)).Return(nil)
	f.draftRepo.On("Get", mock.Anything, int32(1), int32(7)).Return(draft, nil)
	f.bookingRepo.On("ListByTool", mock.Anything, int32(1)).Return([]domain.Booking{}, nil)
	f.toolRepo.On("GetByID", mock.Anything, int32(1)).Return(checkoutTool, nil)
}

func frictionlessSession() *domain.PaymentSession {
	return &domain.PaymentSession{
		IntentID:     "pi_1",
		ClientSecret: "secret_1",
		Requires3DS:  false,
	}
}

func threeDSSession() *domain.PaymentSession {
	return &domain.PaymentSession{
		IntentID:           "pi_1",
		ClientSecret:       "secret_1",
		Requires3DS:        true,
		ChallengeURL:       "https://bank.example/3ds/x",
		ChallengeSessionID: "cs_1",
	}
}

func TestCheckout_FrictionlessHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req payment.CreateIntentRequest) bool {
		return req.AmountCents == 12800 && req.Currency == "USD" && req.IdempotencyKey != ""
	})).Return(frictionlessSession(), nil)
	f.gateway.On("ConfirmCard", mock.Anything, "secret_1", mock.Anything).Return(domain.IntentStatusSucceeded, nil)

	f.bookingRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusConfirmed &&
			b.TotalPriceCents == 12800 &&
			b.PaymentIntentID == "pi_1" &&
			b.RenterID == 7
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 42
	}).Return(nil)
	f.draftRepo.On("Delete", mock.Anything, int32(1), int32(7)).Return(nil)

	var published []events.BookingCreated
	f.bus.SubscribeBookingCreated(func(e events.BookingCreated) {
		published = append(published, e)
	})

	result, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.NoError(t, err)
	assert.Equal(t, int32(42), result.BookingID)
	assert.Equal(t, "pi_1", result.PaymentIntentID)

	// Flow is complete: the draft is cleared, the event published, and
	// the next checkout starts from idle.
	f.draftRepo.AssertCalled(t, "Delete", mock.Anything, int32(1), int32(7))
	assert.Len(t, published, 1)
	assert.Equal(t, int32(42), published[0].BookingID)
	assert.Equal(t, "Cordless Drill", published[0].ToolTitle)
	assert.Equal(t, StateIdle, f.svc.State(1, 7))
}

func TestCheckout_ValidationFailureLeavesStateIdle(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	// Draft with no dates at all.
	f.draftRepo.On("DeleteOthers", mock.Anything, int32(7), int32(1)).Return(nil)
	f.draftRepo.On("Get", mock.Anything, int32(1), int32(7)).Return(nil, nil)

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrStartDateRequired)
	assert.Equal(t, StateIdle, f.svc.State(1, 7))
	f.gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestCheckout_IntentCreationFailure(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	providerErr := &payment.ProviderError{StatusCode: 402, Message: "card_declined: insufficient funds"}
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, providerErr)

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorContains(t, err, "insufficient funds")
	assert.Equal(t, StateFailed, f.svc.State(1, 7))
	f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_DeclinedConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(frictionlessSession(), nil)
	f.gateway.On("ConfirmCard", mock.Anything, "secret_1", mock.Anything).Return(domain.IntentStatusFailed, nil)

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, StateFailed, f.svc.State(1, 7))
}

func TestCheckout_3DSChallengeHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(threeDSSession(), nil)
	f.gateway.On("ChallengeStatus", mock.Anything, "cs_1").Return(domain.ChallengeStatusCompleted, nil)
	f.gateway.On("IntentStatus", mock.Anything, "pi_1").Return(domain.IntentStatusSucceeded, nil)

	f.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 43
	}).Return(nil)
	f.draftRepo.On("Delete", mock.Anything, int32(1), int32(7)).Return(nil)

	result, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.NoError(t, err)
	assert.Equal(t, int32(43), result.BookingID)

	// Frictionless confirmation must not run when 3DS handled the payment.
	f.gateway.AssertNotCalled(t, "ConfirmCard", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_3DSChallengeTimeout(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(threeDSSession(), nil)
	f.gateway.On("ChallengeStatus", mock.Anything, "cs_1").Return(domain.ChallengeStatusPending, nil)
	f.gateway.On("ExpireChallenge", mock.Anything, "cs_1").Return(nil)

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrChallengeTimedOut)
	assert.Equal(t, StateFailed, f.svc.State(1, 7))
	f.gateway.AssertCalled(t, "ExpireChallenge", mock.Anything, "cs_1")
}

func TestCheckout_3DSChallengeMissingURL(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	s := threeDSSession()
	s.ChallengeURL = ""
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(s, nil)

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrChallengeAbandoned)
	assert.Equal(t, StateFailed, f.svc.State(1, 7))
}

func TestCheckout_CancelChallenge(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(threeDSSession(), nil)
	f.gateway.On("ChallengeStatus", mock.Anything, "cs_1").Return(domain.ChallengeStatusPending, nil)
	f.gateway.On("ExpireChallenge", mock.Anything, "cs_1").Return(nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
		errCh <- err
	}()

	// No challenge yet before the submit reaches the 3DS step.
	assert.Eventually(t, func() bool {
		return f.svc.CancelChallenge(1, 7)
	}, time.Second, 2*time.Millisecond)

	err := <-errCh
	assert.ErrorIs(t, err, ErrChallengeAbandoned)
	assert.Equal(t, StateFailed, f.svc.State(1, 7))
}

func TestCheckout_DuplicateSubmitRejected(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(threeDSSession(), nil).Once()
	f.gateway.On("ChallengeStatus", mock.Anything, "cs_1").Return(domain.ChallengeStatusPending, nil)
	f.gateway.On("ExpireChallenge", mock.Anything, "cs_1").Return(nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
		errCh <- err
	}()

	assert.Eventually(t, func() bool {
		return f.svc.State(1, 7) == StateChallengeRequired
	}, time.Second, 2*time.Millisecond)

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	f.gateway.AssertNumberOfCalls(t, "CreateIntent", 1)

	f.svc.CancelChallenge(1, 7)
	<-errCh
}

func TestCheckout_CancelChallengeWithoutFlow(t *testing.T) {
	f := newCheckoutFixture(t)
	assert.False(t, f.svc.CancelChallenge(1, 7))
}

func TestCheckout_PostPaymentBookingFailure(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(frictionlessSession(), nil).Once()
	f.gateway.On("ConfirmCard", mock.Anything, "secret_1", mock.Anything).Return(domain.IntentStatusSucceeded, nil).Once()

	// First booking write fails after the payment was captured.
	f.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(assert.AnError).Once()

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrPostPaymentInconsistency)
	assert.Equal(t, StateConfirmed, f.svc.State(1, 7))

	// Retrying the submit must not touch the payment again, only the
	// booking write.
	f.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 44
	}).Return(nil).Once()
	f.draftRepo.On("Delete", mock.Anything, int32(1), int32(7)).Return(nil)

	result, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.NoError(t, err)
	assert.Equal(t, int32(44), result.BookingID)

	f.gateway.AssertNumberOfCalls(t, "CreateIntent", 1)
	f.gateway.AssertNumberOfCalls(t, "ConfirmCard", 1)
	assert.Equal(t, StateIdle, f.svc.State(1, 7))
}

func TestCheckout_ConfirmedRetryAdmitsSingleBookingWrite(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(frictionlessSession(), nil).Once()
	f.gateway.On("ConfirmCard", mock.Anything, "secret_1", mock.Anything).Return(domain.IntentStatusSucceeded, nil).Once()

	// First booking write fails, leaving the flow confirmed with the
	// payment captured.
	f.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(assert.AnError).Once()

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrPostPaymentInconsistency)
	assert.Equal(t, StateConfirmed, f.svc.State(1, 7))

	// Two concurrent retries race into the booking write. The slow
	// Create mock keeps the first retry in flight long enough for the
	// second to observe it; exactly one write may happen.
	writeStarted := make(chan struct{})
	releaseWrite := make(chan struct{})
	f.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		close(writeStarted)
		<-releaseWrite
		args.Get(1).(*domain.Booking).ID = 46
	}).Return(nil).Once()
	f.draftRepo.On("Delete", mock.Anything, int32(1), int32(7)).Return(nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
		firstDone <- err
	}()
	<-writeStarted

	_, err = f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrCheckoutInProgress)

	close(releaseWrite)
	assert.NoError(t, <-firstDone)

	f.bookingRepo.AssertNumberOfCalls(t, "Create", 2)
	f.gateway.AssertNumberOfCalls(t, "CreateIntent", 1)
	f.gateway.AssertNumberOfCalls(t, "ConfirmCard", 1)
	assert.Equal(t, StateIdle, f.svc.State(1, 7))
}

func TestCheckout_FailedFlowCanRestart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.arm(ctx)

	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, &payment.ProviderError{StatusCode: 502, Message: "gateway unavailable"}).Once()
	f.gateway.On("CreateIntent", mock.Anything, mock.Anything).Return(frictionlessSession(), nil).Once()
	f.gateway.On("ConfirmCard", mock.Anything, "secret_1", mock.Anything).Return(domain.IntentStatusSucceeded, nil)

	f.bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 45
	}).Return(nil)
	f.draftRepo.On("Delete", mock.Anything, int32(1), int32(7)).Return(nil)

	_, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.Error(t, err)
	assert.Equal(t, StateFailed, f.svc.State(1, 7))

	result, err := f.svc.Submit(ctx, 1, 7, CheckoutRequest{})
	assert.NoError(t, err)
	assert.Equal(t, int32(45), result.BookingID)
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrStartDateRequired))
	assert.True(t, IsValidationError(ErrPeriodUnavailable))
	assert.False(t, IsValidationError(ErrPaymentDeclined))
	assert.False(t, IsValidationError(assert.AnError))
}
