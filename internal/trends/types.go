package trends

import (
	"errors"
	"fmt"
	"time"
)

// ErrDataUnavailable covers every upstream failure that can be recovered
// locally: network errors, rate limits and empty results. It never escapes
// the ingestor boundary; callers substitute synthetic data instead.
var ErrDataUnavailable = errors.New("trend data unavailable")

// ErrRateLimited marks an upstream rate-limit rejection. Wraps
// ErrDataUnavailable so a generic availability check still matches.
var ErrRateLimited = fmt.Errorf("%w: rate limited", ErrDataUnavailable)

// APIError is a non-2xx response from the interest-over-time service
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trends service error (%d): %s", e.StatusCode, e.Message)
}

// InterestRequest is the query for one keyword's interest-over-time series
type InterestRequest struct {
	Keyword   string `json:"keyword"`
	Geo       string `json:"geo"`
	Timeframe string `json:"timeframe"`
}

// InterestPointResponse is a single sample on the wire
type InterestPointResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// InterestResponse is the upstream interest-over-time payload
type InterestResponse struct {
	Keyword   string                  `json:"keyword"`
	Geo       string                  `json:"geo"`
	Timeframe string                  `json:"timeframe"`
	Points    []InterestPointResponse `json:"points"`
}

// ErrorResponse is the upstream error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports upstream service health
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
