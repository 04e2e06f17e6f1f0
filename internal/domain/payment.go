package domain

// IntentStatus mirrors the payment provider's intent lifecycle.
type IntentStatus string

const (
	IntentStatusRequiresConfirmation IntentStatus = "requires_confirmation"
	IntentStatusRequiresAction       IntentStatus = "requires_action"
	IntentStatusProcessing           IntentStatus = "processing"
	IntentStatusSucceeded            IntentStatus = "succeeded"
	IntentStatusCanceled             IntentStatus = "canceled"
	IntentStatusFailed               IntentStatus = "failed"
)

// Terminal reports whether the provider will not move the intent further.
func (s IntentStatus) Terminal() bool {
	switch s {
	case IntentStatusSucceeded, IntentStatusCanceled, IntentStatusFailed:
		return true
	}
	return false
}

// ChallengeStatus mirrors the provider's 3-D Secure session lifecycle.
type ChallengeStatus string

const (
	ChallengeStatusPending   ChallengeStatus = "pending"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusAbandoned ChallengeStatus = "abandoned"
	ChallengeStatusExpired   ChallengeStatus = "expired"
)

// PaymentSession is the ephemeral state of one payment attempt. It is
// created by requesting an intent from the provider, consumed either by a
// frictionless confirmation or after a 3DS challenge, and discarded once
// the booking is created or the flow aborts.
type PaymentSession struct {
	IntentID           string `json:"payment_intent_id"`
	ClientSecret       string `json:"client_secret"`
	Requires3DS        bool   `json:"requires_3ds"`
	ChallengeURL       string `json:"challenge_url,omitempty"`
	ChallengeSessionID string `json:"challenge_session_id,omitempty"`
}
