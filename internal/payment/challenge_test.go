package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"toolshare-booking-backend/internal/domain"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, req CreateIntentRequest) (*domain.PaymentSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSession), args.Error(1)
}
func (m *MockGateway) ConfirmCard(ctx context.Context, clientSecret string, billing BillingDetails) (domain.IntentStatus, error) {
	args := m.Called(ctx, clientSecret, billing)
	return args.Get(0).(domain.IntentStatus), args.Error(1)
}
func (m *MockGateway) IntentStatus(ctx context.Context, intentID string) (domain.IntentStatus, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(domain.IntentStatus), args.Error(1)
}
func (m *MockGateway) ChallengeStatus(ctx context.Context, sessionID string) (domain.ChallengeStatus, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.ChallengeStatus), args.Error(1)
}
func (m *MockGateway) ExpireChallenge(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func challengeSession() *domain.PaymentSession {
	return &domain.PaymentSession{
		IntentID:           "pi_123",
		ClientSecret:       "secret_123",
		Requires3DS:        true,
		ChallengeURL:       "https://bank.example/3ds/abc",
		ChallengeSessionID: "cs_123",
	}
}

func TestChallengeMonitor_Begin(t *testing.T) {
	m := NewChallengeMonitor(new(MockGateway), 10*time.Millisecond, time.Second)

	t.Run("ValidSession", func(t *testing.T) {
		ch, err := m.Begin(challengeSession())
		assert.NoError(t, err)
		assert.NotNil(t, ch)
	})

	t.Run("MissingChallengeURL", func(t *testing.T) {
		s := challengeSession()
		s.ChallengeURL = ""
		_, err := m.Begin(s)
		assert.ErrorIs(t, err, ErrChallengeUnavailable)
	})

	t.Run("NilSession", func(t *testing.T) {
		_, err := m.Begin(nil)
		assert.ErrorIs(t, err, ErrChallengeUnavailable)
	})
}

func TestChallenge_Await_SuccessRequiresSucceededIntent(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("ChallengeStatus", mock.Anything, "cs_123").Return(domain.ChallengeStatusCompleted, nil)
	gateway.On("IntentStatus", mock.Anything, "pi_123").Return(domain.IntentStatusSucceeded, nil)

	m := NewChallengeMonitor(gateway, 5*time.Millisecond, time.Second)
	ch, err := m.Begin(challengeSession())
	assert.NoError(t, err)

	outcome, err := ch.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)
	assert.True(t, outcome.Succeeded())
}

func TestChallenge_Await_CompletedSessionWithFailedIntentIsAbandoned(t *testing.T) {
	// The session ending is not proof of payment. Only the provider's
	// intent status decides.
	gateway := new(MockGateway)
	gateway.On("ChallengeStatus", mock.Anything, "cs_123").Return(domain.ChallengeStatusCompleted, nil)
	gateway.On("IntentStatus", mock.Anything, "pi_123").Return(domain.IntentStatusFailed, nil)

	m := NewChallengeMonitor(gateway, 5*time.Millisecond, time.Second)
	ch, _ := m.Begin(challengeSession())

	outcome, err := ch.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAbandoned, outcome)
	assert.False(t, outcome.Succeeded())
}

func TestChallenge_Await_AbandonedSession(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("ChallengeStatus", mock.Anything, "cs_123").Return(domain.ChallengeStatusAbandoned, nil)

	m := NewChallengeMonitor(gateway, 5*time.Millisecond, time.Second)
	ch, _ := m.Begin(challengeSession())

	outcome, err := ch.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAbandoned, outcome)
	gateway.AssertNotCalled(t, "IntentStatus", mock.Anything, mock.Anything)
}

func TestChallenge_Await_Timeout(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("ChallengeStatus", mock.Anything, "cs_123").Return(domain.ChallengeStatusPending, nil)
	gateway.On("ExpireChallenge", mock.Anything, "cs_123").Return(nil)

	m := NewChallengeMonitor(gateway, 5*time.Millisecond, 40*time.Millisecond)
	ch, _ := m.Begin(challengeSession())

	outcome, err := ch.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeTimedOut, outcome)
	gateway.AssertCalled(t, "ExpireChallenge", mock.Anything, "cs_123")
}

func TestChallenge_Await_Cancel(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("ChallengeStatus", mock.Anything, "cs_123").Return(domain.ChallengeStatusPending, nil)
	gateway.On("ExpireChallenge", mock.Anything, "cs_123").Return(nil)

	m := NewChallengeMonitor(gateway, 5*time.Millisecond, time.Second)
	ch, _ := m.Begin(challengeSession())

	go func() {
		time.Sleep(20 * time.Millisecond)
		ch.Cancel()
	}()

	outcome, err := ch.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.False(t, outcome.Succeeded())
	gateway.AssertCalled(t, "ExpireChallenge", mock.Anything, "cs_123")
}

func TestChallenge_Await_TransientPollErrorsAreRetried(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("ChallengeStatus", mock.Anything, "cs_123").Return(domain.ChallengeStatusPending, assert.AnError).Once()
	gateway.On("ChallengeStatus", mock.Anything, "cs_123").Return(domain.ChallengeStatusCompleted, nil)
	gateway.On("IntentStatus", mock.Anything, "pi_123").Return(domain.IntentStatusSucceeded, nil)

	m := NewChallengeMonitor(gateway, 5*time.Millisecond, time.Second)
	ch, _ := m.Begin(challengeSession())

	outcome, err := ch.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)
}

func TestChallenge_CancelIsIdempotent(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("ExpireChallenge", mock.Anything, "cs_123").Return(nil)

	m := NewChallengeMonitor(gateway, 5*time.Millisecond, time.Second)
	ch, _ := m.Begin(challengeSession())

	ch.Cancel()
	ch.Cancel() // must not panic

	outcome, err := ch.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
}
