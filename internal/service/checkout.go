package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/logger"
	"toolshare-booking-backend/internal/payment"
)

// CheckoutState is the explicit state of one checkout flow. Rendering
// and retry decisions key off this single value instead of a pile of
// independent boolean flags.
type CheckoutState string

const (
	StateIdle                CheckoutState = "idle"
	StateIntentRequested     CheckoutState = "intent_requested"
	StateChallengeRequired   CheckoutState = "challenge_required"
	StateFrictionlessConfirm CheckoutState = "frictionless_confirm"
	StateConfirmed           CheckoutState = "confirmed"
	StateBookingCreated      CheckoutState = "booking_created"
	StateFailed              CheckoutState = "failed"
)

type flowKey struct {
	toolID int32
	userID int32
}

// checkoutFlow holds the in-flight state of one (tool, user) checkout.
// Once the payment is confirmed, the draft snapshot and session are kept
// so a booking-creation retry never re-runs the payment.
type checkoutFlow struct {
	state     CheckoutState
	inFlight  bool
	session   *domain.PaymentSession
	draft     *domain.BookingDraft
	quote     *domain.PricingQuote
	challenge *payment.Challenge
	lastErr   error
}

type checkoutService struct {
	drafts   DraftService
	bookings BookingService
	gateway  payment.Gateway
	monitor  *payment.ChallengeMonitor
	currency string

	mu    sync.Mutex
	flows map[flowKey]*checkoutFlow
}

func NewCheckoutService(
	drafts DraftService,
	bookings BookingService,
	gateway payment.Gateway,
	monitor *payment.ChallengeMonitor,
	currency string,
) CheckoutService {
	return &checkoutService{
		drafts:   drafts,
		bookings: bookings,
		gateway:  gateway,
		monitor:  monitor,
		currency: currency,
		flows:    make(map[flowKey]*checkoutFlow),
	}
}

// Submit drives one complete checkout: validate → create intent →
// (challenge | frictionless confirm) → create booking → clear draft.
// The steps run strictly in order; no two payment steps ever run
// concurrently for the same draft.
func (s *checkoutService) Submit(ctx context.Context, toolID, userID int32, req CheckoutRequest) (*CheckoutResult, error) {
	key := flowKey{toolID: toolID, userID: userID}

	s.mu.Lock()
	f, ok := s.flows[key]
	if !ok {
		f = &checkoutFlow{state: StateIdle}
		s.flows[key] = f
	}
	if f.inFlight {
		s.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	resume := false
	switch f.state {
	case StateIdle, StateFailed:
		// Fresh attempt. A failed flow may safely restart from intent
		// creation: no prior intent was captured.
		f.state = StateIntentRequested
		f.session = nil
		f.challenge = nil
		f.lastErr = nil
	case StateConfirmed:
		// The payment is already captured; only the booking write is
		// retried, never the payment.
		resume = true
	default:
		s.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	f.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		f.inFlight = false
		s.mu.Unlock()
	}()

	if resume {
		return s.createBooking(ctx, key, f)
	}

	// Validation happens before any money moves. A validation failure
	// returns the flow to idle: it is recoverable by editing the form,
	// not a payment failure.
	draft, quote, err := s.drafts.ValidateForSubmit(ctx, toolID, userID)
	if err != nil {
		s.setState(key, StateIdle, nil)
		return nil, err
	}

	currency := quote.Currency
	if currency == "" {
		currency = s.currency
	}

	metadata := map[string]string{
		"tool_id": fmt.Sprintf("%d", toolID),
		"user_id": fmt.Sprintf("%d", userID),
	}
	if req.DisplayCurrency != "" {
		metadata["display_currency"] = req.DisplayCurrency
	}
	if req.DisplayAmount != "" {
		metadata["display_amount"] = req.DisplayAmount
	}
	if req.Billing.Name != "" {
		metadata["cardholder"] = req.Billing.Name
	}

	session, err := s.gateway.CreateIntent(ctx, payment.CreateIntentRequest{
		AmountCents:    quote.TotalCents,
		Currency:       currency,
		Method:         string(draft.PaymentMethod),
		IdempotencyKey: uuid.NewString(),
		Metadata:       metadata,
	})
	if err != nil {
		// Provider messages surface verbatim; anything else gets the
		// generic network wrapping at the API boundary.
		s.setState(key, StateFailed, err)
		return nil, err
	}

	s.mu.Lock()
	f.session = session
	f.draft = draft
	f.quote = quote
	s.mu.Unlock()

	if session.Requires3DS {
		if err := s.runChallenge(ctx, key, f, session); err != nil {
			return nil, err
		}
	} else {
		if err := s.confirmFrictionless(ctx, key, session, req.Billing); err != nil {
			return nil, err
		}
	}

	s.setState(key, StateConfirmed, nil)
	return s.createBooking(ctx, key, f)
}

func (s *checkoutService) runChallenge(ctx context.Context, key flowKey, f *checkoutFlow, session *domain.PaymentSession) error {
	ch, err := s.monitor.Begin(session)
	if err != nil {
		// Equivalent to a blocked popup: fail immediately.
		s.setState(key, StateFailed, err)
		return ErrChallengeAbandoned
	}

	s.mu.Lock()
	f.state = StateChallengeRequired
	f.challenge = ch
	s.mu.Unlock()

	outcome, err := ch.Await(ctx)

	s.mu.Lock()
	f.challenge = nil
	s.mu.Unlock()

	if err != nil {
		s.setState(key, StateFailed, err)
		return fmt.Errorf("3DS challenge failed: %w", err)
	}
	if !outcome.Succeeded() {
		var cause error
		if outcome == payment.OutcomeTimedOut {
			cause = ErrChallengeTimedOut
		} else {
			cause = ErrChallengeAbandoned
		}
		s.setState(key, StateFailed, cause)
		return cause
	}
	return nil
}

func (s *checkoutService) confirmFrictionless(ctx context.Context, key flowKey, session *domain.PaymentSession, billing payment.BillingDetails) error {
	s.setState(key, StateFrictionlessConfirm, nil)

	status, err := s.gateway.ConfirmCard(ctx, session.ClientSecret, billing)
	if err != nil {
		s.setState(key, StateFailed, err)
		return err
	}
	if status != domain.IntentStatusSucceeded {
		logger.Warn("card confirmation did not succeed", "intent_id", session.IntentID, "status", status)
		s.setState(key, StateFailed, ErrPaymentDeclined)
		return ErrPaymentDeclined
	}
	return nil
}

// createBooking runs the post-payment tail of the flow. A failure here
// leaves the flow in Confirmed so a later submit retries only this step.
func (s *checkoutService) createBooking(ctx context.Context, key flowKey, f *checkoutFlow) (*CheckoutResult, error) {
	s.mu.Lock()
	draft, quote, session := f.draft, f.quote, f.session
	s.mu.Unlock()

	booking := &domain.Booking{
		ToolID:          key.toolID,
		RenterID:        key.userID,
		StartDate:       *draft.StartDate,
		EndDate:         *draft.EndDate,
		Status:          domain.BookingStatusConfirmed,
		PickupHour:      draft.PickupHour,
		Message:         draft.Message,
		TotalPriceCents: quote.TotalCents,
		Currency:        quote.Currency,
		PaymentIntentID: session.IntentID,
	}

	created, err := s.bookings.CreateBooking(ctx, booking)
	if err != nil {
		logger.Error("booking creation failed after captured payment",
			"intent_id", session.IntentID, "tool_id", key.toolID, "user_id", key.userID, "error", err)
		s.mu.Lock()
		f.lastErr = err
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrPostPaymentInconsistency, err)
	}

	s.setState(key, StateBookingCreated, nil)

	if err := s.drafts.Clear(ctx, key.toolID, key.userID); err != nil {
		logger.Warn("failed to clear draft after booking", "tool_id", key.toolID, "user_id", key.userID, "error", err)
	}

	// Flow complete: drop it so the next checkout starts from idle.
	s.mu.Lock()
	delete(s.flows, key)
	s.mu.Unlock()

	return &CheckoutResult{
		BookingID:       created.ID,
		PaymentIntentID: session.IntentID,
	}, nil
}

func (s *checkoutService) State(toolID, userID int32) CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.flows[flowKey{toolID: toolID, userID: userID}]; ok {
		return f.state
	}
	return StateIdle
}

func (s *checkoutService) CancelChallenge(toolID, userID int32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[flowKey{toolID: toolID, userID: userID}]
	if !ok || f.state != StateChallengeRequired || f.challenge == nil {
		return false
	}
	f.challenge.Cancel()
	return true
}

func (s *checkoutService) setState(key flowKey, state CheckoutState, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[key]
	if !ok {
		return
	}
	f.state = state
	f.lastErr = cause
	if state == StateIdle {
		delete(s.flows, key)
	}
}

// IsValidationError reports whether err belongs to the pre-flight
// validation family (recoverable by editing the form).
func IsValidationError(err error) bool {
	for _, v := range []error{
		ErrStartDateRequired, ErrEndDateRequired, ErrStartAfterEnd,
		ErrDurationExceeded, ErrPeriodUnavailable, ErrInvalidQuote,
		ErrInvalidPaymentMethod,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
