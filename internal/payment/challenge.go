package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/logger"
)

// ErrChallengeUnavailable means the provider did not hand back a usable
// challenge session. Equivalent to a blocked popup: failing immediately
// beats waiting on a completion that can never arrive.
var ErrChallengeUnavailable = errors.New("3DS challenge session unavailable")

// ChallengeOutcome is the terminal result of one challenge attempt.
type ChallengeOutcome string

const (
	OutcomeCompleted ChallengeOutcome = "completed"
	OutcomeAbandoned ChallengeOutcome = "abandoned"
	OutcomeTimedOut  ChallengeOutcome = "timed_out"
	OutcomeCancelled ChallengeOutcome = "cancelled"
)

// Succeeded reports whether the challenge ended with a verified payment.
func (o ChallengeOutcome) Succeeded() bool { return o == OutcomeCompleted }

// ChallengeMonitor observes out-of-band 3-D Secure challenge sessions.
// Completion is gated by the provider-reported intent status, never by
// the session merely ending: a session that finishes without the intent
// reaching "succeeded" counts as abandoned.
type ChallengeMonitor struct {
	gateway      Gateway
	pollInterval time.Duration
	timeout      time.Duration
}

func NewChallengeMonitor(gateway Gateway, pollInterval, timeout time.Duration) *ChallengeMonitor {
	return &ChallengeMonitor{
		gateway:      gateway,
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

// Challenge is one running challenge attempt. Await must be called
// exactly once; Cancel may be called from any goroutine.
type Challenge struct {
	monitor  *ChallengeMonitor
	session  *domain.PaymentSession
	cancelCh chan struct{}
	once     sync.Once
}

// Begin validates the session and prepares a challenge attempt. The same
// session may be passed to Begin again to retry an abandoned challenge.
func (m *ChallengeMonitor) Begin(session *domain.PaymentSession) (*Challenge, error) {
	if session == nil || session.ChallengeURL == "" || session.ChallengeSessionID == "" {
		return nil, ErrChallengeUnavailable
	}
	return &Challenge{
		monitor:  m,
		session:  session,
		cancelCh: make(chan struct{}),
	}, nil
}

// Cancel aborts the attempt. Await then resolves with OutcomeCancelled
// after the session is expired at the provider.
func (c *Challenge) Cancel() {
	c.once.Do(func() { close(c.cancelCh) })
}

// Await polls the challenge session until it reaches a terminal state,
// the timeout elapses, the context is done, or Cancel is called. Every
// path resolves: the caller is never left waiting indefinitely.
func (c *Challenge) Await(ctx context.Context) (ChallengeOutcome, error) {
	m := c.monitor
	deadline := time.NewTimer(m.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.expire()
			return OutcomeCancelled, ctx.Err()

		case <-c.cancelCh:
			logger.Info("3DS challenge cancelled", "session_id", c.session.ChallengeSessionID)
			c.expire()
			return OutcomeCancelled, nil

		case <-deadline.C:
			logger.Warn("3DS challenge timed out", "session_id", c.session.ChallengeSessionID, "timeout", m.timeout)
			c.expire()
			return OutcomeTimedOut, nil

		case <-ticker.C:
			status, err := m.gateway.ChallengeStatus(ctx, c.session.ChallengeSessionID)
			if err != nil {
				// Transient poll failures are retried on the next tick;
				// the timeout still bounds the whole attempt.
				logger.Warn("3DS challenge status poll failed", "session_id", c.session.ChallengeSessionID, "error", err)
				continue
			}

			switch status {
			case domain.ChallengeStatusCompleted:
				return c.verifyIntent(ctx)
			case domain.ChallengeStatusAbandoned, domain.ChallengeStatusExpired:
				return OutcomeAbandoned, nil
			}
		}
	}
}

// verifyIntent confirms with the provider that the payment actually
// succeeded before reporting the challenge as completed.
func (c *Challenge) verifyIntent(ctx context.Context) (ChallengeOutcome, error) {
	status, err := c.monitor.gateway.IntentStatus(ctx, c.session.IntentID)
	if err != nil {
		return OutcomeAbandoned, err
	}
	if status != domain.IntentStatusSucceeded {
		logger.Warn("3DS challenge completed but intent did not succeed",
			"intent_id", c.session.IntentID, "status", status)
		return OutcomeAbandoned, nil
	}
	return OutcomeCompleted, nil
}

// expire force-closes the session at the provider, best effort. Uses a
// fresh short-lived context because the caller's may already be done.
func (c *Challenge) expire() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.monitor.gateway.ExpireChallenge(ctx, c.session.ChallengeSessionID); err != nil {
		logger.Warn("failed to expire 3DS challenge session", "session_id", c.session.ChallengeSessionID, "error", err)
	}
}
