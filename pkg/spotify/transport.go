package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// get makes an authenticated GET request to the Web API with retry logic.
//
// It handles:
// - Bearer token attachment (requests go out unauthenticated without a token)
// - 401 detection and the OnUnauthorized hook (never retried)
// - Retry with exponential backoff for 429, 5xx and network errors
// - Response parsing (JSON)
// - Context cancellation
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	requestID := uuid.NewString()
	backoff := c.retryBackoff
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		c.logDebugf("spotify: GET %s (request %s, attempt %d/%d)", path, requestID, i+1, c.maxRetries)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "spotlook/1.0")
		token := c.attachToken(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if shouldRetryNetworkError(err) && i < c.maxRetries-1 {
				c.logDebugf("spotify: network error, retrying request %s: %v", requestID, err)
				if !sleep(ctx, backoff) {
					return ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return fmt.Errorf("http request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			c.logDebugf("spotify: request %s rejected with 401", requestID)
			if c.onUnauthorized != nil {
				c.onUnauthorized(token)
			}
			return parseError(resp.StatusCode, body)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := parseError(resp.StatusCode, body)
			if apiErr.Temporary() && i < c.maxRetries-1 {
				lastErr = apiErr
				wait := backoff
				if ra := parseRetryAfter(resp); ra > 0 {
					wait = ra
				}
				c.logDebugf("spotify: %v, retrying request %s in %s", apiErr, requestID, wait)
				if !sleep(ctx, wait) {
					return ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return apiErr
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}

		c.logDebugf("spotify: request %s succeeded", requestID)
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attachToken sets the Authorization header when a token is available and
// returns the token that was sent.
func (c *Client) attachToken(req *http.Request) string {
	if c.tokens == nil {
		return ""
	}
	tok, err := c.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return ""
	}
	tok.SetAuthHeader(req)
	return tok.AccessToken
}

// parseError builds an *Error from a Spotify error body.
func parseError(status int, body []byte) *Error {
	msg := gjson.GetBytes(body, "error.message").String()
	if msg == "" {
		if e := gjson.GetBytes(body, "error"); e.Type == gjson.String {
			msg = e.String()
		}
	}
	return &Error{Status: status, Message: msg}
}

// parseRetryAfter reads the Retry-After header in seconds or HTTP-date form.
func parseRetryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(raw); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

// shouldRetryNetworkError checks if a network error is retryable.
func shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// sleep waits for the specified duration or until context is cancelled.
// Returns true if sleep completed, false if context was cancelled.
func sleep(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// nextBackoff doubles the backoff, capped at 30 seconds.
func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > 30*time.Second {
		return 30 * time.Second
	}
	return next
}
