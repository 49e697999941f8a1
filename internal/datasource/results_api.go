package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/horse-prefs/internal/logger"
)

const resultsAPISourceName = "results_api"

// ResultsAPIClient implements RaceHistorySource against the remote results
// service. The service exposes horse listings and per-horse history rows in
// the same cell layout the normalizer consumes.
type ResultsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	srcLog     *logger.SourceLogger
}

// horseListResponse is the results service horse index payload
type horseListResponse struct {
	Horses []string `json:"horses"`
}

// historyResponse is the results service per-horse history payload
type historyResponse struct {
	HorseID string     `json:"horse_id"`
	Rows    [][]string `json:"rows"`
}

// NewResultsAPIClient creates a new results service client
func NewResultsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, log *logrus.Logger) *ResultsAPIClient {
	return &ResultsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		srcLog:     logger.NewSourceLogger(log, resultsAPISourceName),
	}
}

// Name returns the name of the source
func (c *ResultsAPIClient) Name() string {
	return resultsAPISourceName
}

// ListHorses retrieves the IDs of all horses known to the results service.
func (c *ResultsAPIClient) ListHorses(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/horses", c.baseURL))
	if err != nil {
		return nil, err
	}

	var payload horseListResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, NewSourceError(resultsAPISourceName, ErrCodeInvalidData, "failed to parse horse list", err)
	}

	return payload.Horses, nil
}

// FetchHistory retrieves the raw history rows for one horse.
func (c *ResultsAPIClient) FetchHistory(ctx context.Context, horseID string) ([][]string, error) {
	start := time.Now()

	body, err := c.get(ctx, fmt.Sprintf("%s/horses/%s/history", c.baseURL, url.PathEscape(horseID)))
	if err != nil {
		c.srcLog.LogFetchFailed(horseID, err)
		return nil, err
	}

	var payload historyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		srcErr := NewSourceError(resultsAPISourceName, ErrCodeInvalidData, fmt.Sprintf("failed to parse history for horse %s", horseID), err)
		c.srcLog.LogFetchFailed(horseID, srcErr)
		return nil, srcErr
	}

	c.srcLog.LogFetch(horseID, len(payload.Rows), float64(time.Since(start).Milliseconds()))
	return payload.Rows, nil
}

// get executes an authenticated GET and maps provider status codes onto
// source error codes.
func (c *ResultsAPIClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, NewSourceError(resultsAPISourceName, ErrCodeNetworkError, "failed to create request", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewSourceError(resultsAPISourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to the body read
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewSourceError(resultsAPISourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case http.StatusTooManyRequests:
		return nil, NewSourceError(resultsAPISourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case http.StatusNotFound:
		return nil, NewSourceError(resultsAPISourceName, ErrCodeNotFound, "resource not found", ErrHorseNotFound)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewSourceError(resultsAPISourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewSourceError(resultsAPISourceName, ErrCodeNetworkError, "failed to read response body", err)
	}

	return body, nil
}
