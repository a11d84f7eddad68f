// Package query fetches Spotify data for presentation: keyed, deduplicated
// and cached reads whose outcome is always a Result, never a panic or a
// bare error.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jfmyers9/spotlook/pkg/spotify"
)

// Kind names a fetchable resource.
type Kind string

const (
	KindSearch    Kind = "search"
	KindArtist    Kind = "artist"
	KindTopTracks Kind = "top-tracks"
	KindAlbums    Kind = "albums"
)

// Key identifies one cacheable unit of data.
type Key struct {
	Kind   Kind
	ID     string
	Params string
}

func (k Key) String() string {
	if k.Params == "" {
		return fmt.Sprintf("%s:%s", k.Kind, k.ID)
	}
	return fmt.Sprintf("%s:%s?%s", k.Kind, k.ID, k.Params)
}

// Status of a Result.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FailureKind classifies a failed fetch.
type FailureKind int

const (
	// FetchError is any resource read failure other than an auth failure.
	FetchError FailureKind = iota
	// AuthExpired means the API rejected the token (HTTP 401). The auth
	// controller has already been told; callers only wait for a new session.
	AuthExpired
	// AuthError means no usable credentials could be obtained.
	AuthError
)

func (k FailureKind) String() string {
	switch k {
	case AuthExpired:
		return "auth-expired"
	case AuthError:
		return "auth-error"
	default:
		return "fetch-error"
	}
}

// Failure describes why a Result has StatusError.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Result is the tagged outcome of a read. Data is only meaningful when
// Status is StatusSuccess, Failure only when it is StatusError.
type Result[T any] struct {
	Status    Status
	Data      T
	Failure   *Failure
	FetchedAt time.Time
}

// OK reports whether the result holds data.
func (r Result[T]) OK() bool {
	return r.Status == StatusSuccess
}

// Err returns the failure as an error, or nil.
func (r Result[T]) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// classify turns an error from the API client into a Failure.
func classify(err error) *Failure {
	var authErr *spotify.AuthError
	switch {
	case errors.Is(err, spotify.ErrUnauthorized):
		return &Failure{Kind: AuthExpired, Message: err.Error()}
	case errors.As(err, &authErr):
		return &Failure{Kind: AuthError, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: FetchError, Message: "request timed out"}
	default:
		return &Failure{Kind: FetchError, Message: err.Error()}
	}
}
