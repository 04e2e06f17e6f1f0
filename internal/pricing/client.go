package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"toolshare-booking-backend/internal/domain"
	"toolshare-booking-backend/internal/logger"
)

// Client calls the remote pricing endpoint. Any failure here is absorbed
// by the caller's local fallback formula; this client never invents
// numbers of its own.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Quote(ctx context.Context, toolID int32, start, end time.Time) (*domain.PricingQuote, error) {
	logger.ExternalServiceCall("pricing", "Quote", "tool_id", toolID)

	body := struct {
		ToolID    int32  `json:"toolId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}{
		ToolID:    toolID,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/quotes", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.ExternalServiceResult("pricing", "Quote", err)
		return nil, fmt.Errorf("pricing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("pricing endpoint returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("pricing", "Quote", err)
		return nil, err
	}

	var quote domain.PricingQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		logger.ExternalServiceResult("pricing", "Quote", err)
		return nil, err
	}
	quote.Source = domain.QuoteSourceRemote

	logger.ExternalServiceResult("pricing", "Quote", nil, "total_cents", quote.TotalCents)
	return &quote, nil
}
