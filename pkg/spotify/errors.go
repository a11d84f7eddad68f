package spotify

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a non-2xx response from the Spotify Web API.
//
// Spotify reports failures as {"error": {"status": 404, "message": "..."}}.
// Error keeps the HTTP status and the message so callers can decide
// whether to retry.
type Error struct {
	Status  int    // HTTP status code
	Message string // Error message from Spotify (may be empty)
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify: status %d", e.Status)
	}
	return fmt.Sprintf("spotify: status %d: %s", e.Status, e.Message)
}

// Is reports whether target matches this error.
//
// A 401 Error matches ErrUnauthorized, so callers can use
// errors.Is(err, spotify.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	if target == ErrUnauthorized {
		return e.Status == http.StatusUnauthorized
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status
}

// Temporary returns true if the request should be retried.
//
// Rate limiting (429) and server errors (5xx) are temporary.
func (e *Error) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// AuthError is returned when the token exchange fails or returns no token.
type AuthError struct {
	Reason string // Short description of what went wrong
	Err    error  // Underlying error, if any
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("spotify: authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("spotify: authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Predefined errors for common cases.
var (
	// ErrUnauthorized matches any 401 response from the Web API.
	ErrUnauthorized = errors.New("spotify: unauthorized")

	// ErrMissingID is returned when a resource read is called without an id.
	ErrMissingID = errors.New("spotify: id required")
)
