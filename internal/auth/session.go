// Package auth owns spotlook's auth session: the state machine that decides
// whether a user is signed in, starts the PKCE flow, completes the code
// exchange and reacts to expired tokens.
package auth

// State is a step of the auth state machine.
type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateExchangingCode
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateExchangingCode:
		return "exchanging-code"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is a snapshot of the auth state.
type Session struct {
	State           State  `json:"state"`
	AccessToken     string `json:"-"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsLoading       bool   `json:"is_loading"`
	Error           string `json:"error,omitempty"`
}

func initialSession() Session {
	return Session{State: StateInitializing, IsLoading: true}
}

// loggedOut is the session after Logout and the one every caller can
// compare against.
func loggedOut() Session {
	return Session{State: StateUnauthenticated}
}

// Settled reports whether the session will not change again without a new
// location or an explicit Logout.
func Settled(s Session) bool {
	switch s.State {
	case StateAuthenticated, StateError:
		return true
	case StateUnauthenticated:
		return s.Error != ""
	default:
		return false
	}
}

// Authenticated is a Wait predicate.
func Authenticated(s Session) bool {
	return s.State == StateAuthenticated
}
