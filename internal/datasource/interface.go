package datasource

import (
	"context"
	"errors"
)

// RaceHistorySource supplies raw race-history rows for individual horses.
// Rows are column-indexed text cells in the scraped-table layout; the
// normalizer owns all parsing and validation beyond basic row shape.
type RaceHistorySource interface {
	// ListHorses returns the IDs of every horse this source can serve.
	ListHorses(ctx context.Context) ([]string, error)

	// FetchHistory retrieves the full race history for one horse, rows in
	// whatever order the provider emits them.
	FetchHistory(ctx context.Context, horseID string) ([][]string, error)

	// Name returns the name of the source for logging and metrics labels.
	Name() string
}

// SourceError represents errors from race-history source operations
type SourceError struct {
	Source  string // Source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors for callers that only care about the class of failure
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrHorseNotFound        = errors.New("horse not found")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewSourceError creates a new source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
