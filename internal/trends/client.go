package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/models"
)

// Client is the HTTP client for the search-interest service
type Client struct {
	HTTPClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// NewClient creates a new search-interest client instance
func NewClient(cfg *config.TrendsConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(cfg.ServiceURL, "/"),
		logger:  logger,
	}
}

// BaseURL returns the configured service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthCheck checks if the interest service is reachable
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var response HealthResponse
	if err := c.makeRequest(ctx, "GET", "/health", &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// InterestOverTime fetches the interest-over-time series for one keyword.
// Network failures, rate limits and empty results are all reported as
// ErrDataUnavailable so callers can fall back to synthetic data.
func (c *Client) InterestOverTime(ctx context.Context, keyword, geo, timeframe string) (*models.InterestSeries, error) {
	if keyword == "" {
		return nil, fmt.Errorf("keyword must not be empty")
	}

	path := fmt.Sprintf("/api/v1/interest?keyword=%s&geo=%s&timeframe=%s",
		url.QueryEscape(keyword), url.QueryEscape(geo), url.QueryEscape(timeframe))

	var response InterestResponse
	if err := c.makeRequest(ctx, "GET", path, &response); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err)
	}

	if len(response.Points) == 0 {
		return nil, fmt.Errorf("%w: empty result for %q", ErrDataUnavailable, keyword)
	}

	series := &models.InterestSeries{
		Keyword:   keyword,
		Geo:       geo,
		Timeframe: timeframe,
		Points:    make([]models.InterestPoint, len(response.Points)),
	}
	for i, p := range response.Points {
		series.Points[i] = models.InterestPoint{Timestamp: p.Timestamp, Value: p.Value}
	}
	return series, nil
}

func (c *Client) makeRequest(ctx context.Context, method, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ATIM-Go/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Debug("Error closing response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errorResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
