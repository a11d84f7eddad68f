package auth

import (
	"context"
	"sync"

	"github.com/jfmyers9/spotlook/internal/router"
	"github.com/jfmyers9/spotlook/internal/store"
	"github.com/rs/zerolog"
)

// Controller drives the auth session. There is one per process; every
// mutation of the persisted token and verifier goes through it.
type Controller struct {
	mu      sync.Mutex
	session Session
	version uint64
	changed chan struct{}

	// storeMu makes check-then-write sequences on the store atomic.
	storeMu sync.Mutex

	store   store.Storage
	auth    Authorizer
	nav     Navigator
	starter *PKCEStarter
	logger  zerolog.Logger
}

// NewController creates a controller in the Initializing state.
func NewController(s store.Storage, a Authorizer, nav Navigator, logger zerolog.Logger) *Controller {
	return &Controller{
		session: initialSession(),
		changed: make(chan struct{}),
		store:   s,
		auth:    a,
		nav:     nav,
		starter: NewPKCEStarter(s, a, nav),
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

// Bind evaluates the session on every location the router dispatches.
func (c *Controller) Bind(r *router.Router) {
	r.Subscribe(c.Evaluate)
}

// Snapshot returns the current session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session
}

// Version counts session updates, including ones that leave the session
// as it was.
func (c *Controller) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

// Wait blocks until the session satisfies pred or ctx is done.
func (c *Controller) Wait(ctx context.Context, pred func(Session) bool) (Session, error) {
	return c.wait(ctx, func(s Session, _ uint64) bool { return pred(s) })
}

// WaitAfter is Wait for a session set after version.
func (c *Controller) WaitAfter(ctx context.Context, version uint64, pred func(Session) bool) (Session, error) {
	return c.wait(ctx, func(s Session, v uint64) bool { return v > version && pred(s) })
}

func (c *Controller) wait(ctx context.Context, pred func(Session, uint64) bool) (Session, error) {
	for {
		c.mu.Lock()
		s, v, changed := c.session, c.version, c.changed
		c.mu.Unlock()

		if pred(s, v) {
			return s, nil
		}

		select {
		case <-ctx.Done():
			return s, ctx.Err()
		case <-changed:
		}
	}
}

func (c *Controller) set(s Session) {
	c.mu.Lock()
	prev := c.session
	c.session = s
	c.version++
	close(c.changed)
	c.changed = make(chan struct{})
	c.mu.Unlock()

	if prev.State != s.State {
		c.logger.Debug().
			Str("from", prev.State.String()).
			Str("to", s.State.String()).
			Msg("Auth state changed")
	}
}

// Evaluate re-runs the state machine for loc.
//
// A callback location carrying a code, with a persisted verifier, starts the
// exchange. Otherwise a persisted token means Authenticated and its absence
// starts a new authorization. Error stays until Logout or a fresh callback.
func (c *Controller) Evaluate(ctx context.Context, loc router.Location) {
	route := router.Match(loc)

	if route.Kind == router.KindCallback {
		if route.Error != "" {
			c.fail(ctx, "authorization denied: "+route.Error)
			return
		}
		if route.Code != "" {
			verifier, err := c.store.Get(ctx, store.KeyCodeVerifier)
			if err != nil {
				c.fail(ctx, err.Error())
				return
			}
			if verifier != "" {
				c.exchange(ctx, route.Code, verifier)
				return
			}
			c.logger.Debug().Msg("Callback without a pending verifier, ignoring code")
		}
	}

	if c.Snapshot().State == StateError {
		return
	}

	token, err := c.store.Get(ctx, store.KeyAccessToken)
	if err != nil {
		c.set(Session{State: StateUnauthenticated, Error: err.Error()})
		return
	}
	if token != "" {
		c.set(Session{State: StateAuthenticated, AccessToken: token, IsAuthenticated: true})
		return
	}

	c.set(loggedOut())
	c.logger.Info().Msg("No access token, starting authorization")
	if _, err := c.starter.Start(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Failed to start authorization")
		c.set(Session{State: StateUnauthenticated, Error: err.Error()})
	}
}

func (c *Controller) exchange(ctx context.Context, code, verifier string) {
	c.set(Session{State: StateExchangingCode, IsLoading: true})

	token, err := c.auth.Exchange(ctx, code, verifier)
	if err != nil {
		c.logger.Error().Err(err).Msg("Token exchange failed")
		c.fail(ctx, err.Error())
		return
	}

	c.storeMu.Lock()
	err = c.store.Swap(ctx, store.KeyAccessToken, token.AccessToken, store.KeyCodeVerifier)
	c.storeMu.Unlock()
	if err != nil {
		c.fail(ctx, err.Error())
		return
	}

	c.logger.Info().Msg("Authenticated with Spotify")
	c.set(Session{State: StateAuthenticated, AccessToken: token.AccessToken, IsAuthenticated: true})
	c.nav.Navigate(router.PathRoot)
}

// fail enters Error. The verifier is dropped so it is never reused with
// another code.
func (c *Controller) fail(ctx context.Context, msg string) {
	c.storeMu.Lock()
	if err := c.store.Delete(ctx, store.KeyCodeVerifier); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear code verifier")
	}
	c.storeMu.Unlock()

	c.set(Session{State: StateError, Error: msg})
}

// Logout clears all persisted auth data and resets the session. It never
// fails; a store error is logged.
func (c *Controller) Logout() {
	c.storeMu.Lock()
	err := c.store.Delete(context.Background(), store.KeyAccessToken, store.KeyCodeVerifier)
	c.storeMu.Unlock()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear persisted auth data")
	}

	c.logger.Info().Msg("Logged out")
	c.set(loggedOut())
}

// HandleUnauthorized reacts to a 401 returned for token. The token is
// cleared only if it is still the persisted one, so concurrent failures of
// the same token clear it once. It reports whether it cleared anything.
func (c *Controller) HandleUnauthorized(token string) bool {
	if token == "" {
		return false
	}

	ctx := context.Background()

	c.storeMu.Lock()
	current, err := c.store.Get(ctx, store.KeyAccessToken)
	if err == nil && current == token {
		err = c.store.Delete(ctx, store.KeyAccessToken)
	}
	c.storeMu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear expired token")
		return false
	}
	if current != token {
		return false
	}

	c.logger.Warn().Msg("Access token rejected, restarting authorization")
	c.set(Session{State: StateUnauthenticated, IsLoading: true})
	c.nav.Reload(router.PathRoot)
	return true
}
