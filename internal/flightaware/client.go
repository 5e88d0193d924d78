package flightaware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/yegors/flightboard/pkg/logger"
)

// fetchWindow is how far ahead of now the flights query looks.
const fetchWindow = 12 * time.Hour

// minFetchSpacing is the floor between outbound AeroAPI calls. AeroAPI
// is metered per request, so even a misconfigured interval never hammers it.
const minFetchSpacing = 15 * time.Second

// Client fetches flight data for an airport from the AeroAPI
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *logger.Logger
	now        func() time.Time
}

// NewClient creates a new AeroAPI client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(minFetchSpacing), 1),
		logger:  logger.Named("aeroapi-cli"),
		now:     time.Now,
	}
}

// timeString renders a query bound as a second-precision UTC timestamp
// with a trailing Z, the only form the flights endpoint accepts.
func timeString(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z07:00")
}

// Fetch retrieves the flights snapshot for the given airport code over
// the window [now, now+12h). The code is passed through verbatim.
func (c *Client) Fetch(ctx context.Context, airportCode string) (*Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	now := c.now()
	params := url.Values{}
	params.Set("start", timeString(now))
	params.Set("end", timeString(now.Add(fetchWindow)))

	reqURL := fmt.Sprintf("%s/airports/%s/flights?%s", c.baseURL, airportCode, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-Apikey", c.apiKey)

	c.logger.Debug("Fetching flights",
		logger.String("airport", airportCode),
		logger.String("start", params.Get("start")),
		logger.String("end", params.Get("end")),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse flights response: %w", err)
	}

	c.logger.Debug("Successfully fetched flights",
		logger.String("airport", airportCode),
		logger.Int("flight_count", snapshot.FlightCount()),
		logger.Int("num_pages", snapshot.NumPages),
	)

	return &snapshot, nil
}
