package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/logger"
)

// Gateway is the payment provider consumed over REST. The provider owns
// all card processing and 3-D Secure cryptography; this service only
// creates intents, confirms them, and observes their status.
type Gateway interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*domain.PaymentSession, error)
	ConfirmCard(ctx context.Context, clientSecret string, billing BillingDetails) (domain.IntentStatus, error)
	IntentStatus(ctx context.Context, intentID string) (domain.IntentStatus, error)
	ChallengeStatus(ctx context.Context, sessionID string) (domain.ChallengeStatus, error)
	ExpireChallenge(ctx context.Context, sessionID string) error
}

type CreateIntentRequest struct {
	AmountCents    int32             `json:"amount"`
	Currency       string            `json:"currency"`
	Method         string            `json:"payment_method_type"`
	IdempotencyKey string            `json:"idempotency_key"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type BillingDetails struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// ProviderError carries the provider's own message so callers can surface
// it verbatim to the user.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("payment provider returned status %d", e.StatusCode)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateIntent(ctx context.Context, req CreateIntentRequest) (*domain.PaymentSession, error) {
	logger.ExternalServiceCall("payment", "CreateIntent", "amount", req.AmountCents, "currency", req.Currency)

	var resp struct {
		PaymentIntentID    string `json:"payment_intent_id"`
		ClientSecret       string `json:"client_secret"`
		Requires3DS        bool   `json:"requires_3ds"`
		ChallengeURL       string `json:"challenge_url"`
		ChallengeSessionID string `json:"challenge_session_id"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/intents", req, &resp)
	logger.ExternalServiceResult("payment", "CreateIntent", err)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentSession{
		IntentID:           resp.PaymentIntentID,
		ClientSecret:       resp.ClientSecret,
		Requires3DS:        resp.Requires3DS,
		ChallengeURL:       resp.ChallengeURL,
		ChallengeSessionID: resp.ChallengeSessionID,
	}, nil
}

func (c *Client) ConfirmCard(ctx context.Context, clientSecret string, billing BillingDetails) (domain.IntentStatus, error) {
	logger.ExternalServiceCall("payment", "ConfirmCard")

	body := struct {
		ClientSecret string         `json:"client_secret"`
		Billing      BillingDetails `json:"billing_details"`
	}{ClientSecret: clientSecret, Billing: billing}

	var resp struct {
		Status domain.IntentStatus `json:"status"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/intents/confirm", body, &resp)
	logger.ExternalServiceResult("payment", "ConfirmCard", err, "status", resp.Status)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) IntentStatus(ctx context.Context, intentID string) (domain.IntentStatus, error) {
	var resp struct {
		Status domain.IntentStatus `json:"status"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/intents/"+intentID, nil, &resp)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) ChallengeStatus(ctx context.Context, sessionID string) (domain.ChallengeStatus, error) {
	var resp struct {
		Status domain.ChallengeStatus `json:"status"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/challenges/"+sessionID, nil, &resp)
	if err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) ExpireChallenge(ctx context.Context, sessionID string) error {
	logger.ExternalServiceCall("payment", "ExpireChallenge", "session_id", sessionID)
	err := c.do(ctx, http.MethodPost, "/v1/challenges/"+sessionID+"/expire", nil, nil)
	logger.ExternalServiceResult("payment", "ExpireChallenge", err)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("payment provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := errBody.Message
		if msg == "" {
			msg = errBody.Error
		}
		return &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
