package trmnl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/yegors/flightboard/pkg/logger"
)

// Client pushes formatted boards to a TRMNL webhook
type Client struct {
	httpClient *http.Client
	webhookURL string
	logger     *logger.Logger
}

// NewClient creates a new webhook client
func NewClient(webhookURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		webhookURL: webhookURL,
		logger:     logger.Named("trmnl-cli"),
	}
}

// pushPayload is the webhook body. TRMNL exposes everything under
// merge_variables to its templates.
type pushPayload struct {
	MergeVariables mergeVariables `json:"merge_variables"`
}

type mergeVariables struct {
	Arrivals    []DisplayFlight `json:"arrivals"`
	Departures  []DisplayFlight `json:"departures"`
	AirportCode string          `json:"airportCode"`
}

// Push sends a board to the webhook. Failures are returned for logging
// only; the next push cycle retries with then-current data.
func (c *Client) Push(ctx context.Context, board Board, airportCode string) error {
	payload := pushPayload{
		MergeVariables: mergeVariables{
			Arrivals:    board.Arrivals,
			Departures:  board.Departures,
			AirportCode: airportCode,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Pushing board",
		logger.String("airport", airportCode),
		logger.Int("arrivals", len(board.Arrivals)),
		logger.Int("departures", len(board.Departures)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body content is
		// only worth a debug line.
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		c.logger.Debug("Webhook error body", logger.String("body", string(preview)))
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
