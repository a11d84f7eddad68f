// Package server runs the loopback HTTP listener Spotify redirects to after
// the user authorizes spotlook.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jfmyers9/spotlook/internal/auth"
	"github.com/jfmyers9/spotlook/internal/router"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds how long the callback page waits for the
// exchange to finish.
const DefaultTimeout = 30 * time.Second

// Sessions is the view of the auth controller the server needs.
type Sessions interface {
	Snapshot() auth.Session
	Version() uint64
	WaitAfter(ctx context.Context, version uint64, pred func(auth.Session) bool) (auth.Session, error)
}

// Navigator feeds callback locations into the app. *router.Router
// implements it.
type Navigator interface {
	Reload(target string)
}

// Server serves the OAuth callback path and a JSON status endpoint.
type Server struct {
	mu       sync.Mutex
	engine   *gin.Engine
	http     *http.Server
	addr     string
	path     string
	sessions Sessions
	nav      Navigator
	timeout  time.Duration
	logger   zerolog.Logger
}

// New creates a server for redirectURI, which must be an http URL with an
// explicit host and port and the path router.PathAuth.
func New(redirectURI string, sessions Sessions, nav Navigator, logger zerolog.Logger) (*Server, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URI %q must use http for the loopback listener", redirectURI)
	}
	if u.Port() == "" {
		return nil, fmt.Errorf("redirect URI %q must include a port", redirectURI)
	}

	// The router only dispatches the callback route to the auth controller.
	path := u.Path
	if path != router.PathAuth {
		return nil, fmt.Errorf("redirect URI %q must use the path %s", redirectURI, router.PathAuth)
	}

	s := &Server{
		addr:     u.Host,
		path:     path,
		sessions: sessions,
		nav:      nav,
		timeout:  DefaultTimeout,
		logger:   logger.With().Str("component", "server").Logger(),
	}
	s.engine = s.routes()
	return s, nil
}

// SetTimeout overrides DefaultTimeout.
func (s *Server) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the host:port the server listens on.
func (s *Server) Addr() string {
	return s.addr
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return errors.New("callback server already running")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.http = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.timeout + 10*time.Second,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Callback server stopped")
		}
	}(s.http)

	s.logger.Debug().Str("addr", s.addr).Str("path", s.path).Msg("Callback server listening")
	return nil
}

// Shutdown stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http == nil {
		return nil
	}
	defer func() { s.http = nil }()
	return s.http.Shutdown(ctx)
}

var pageTemplate = template.Must(template.New("callback").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>spotlook</title></head>
<body>
{{if .OK}}<h1>Signed in to Spotify</h1>
<p>You can close this window and return to spotlook.</p>
{{else}}<h1>Sign-in failed</h1>
<p>{{.Message}}</p>
<p>Run <code>spotlook auth</code> to try again.</p>
{{end}}</body>
</html>
`))

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.logRequests())
	engine.SetHTMLTemplate(pageTemplate)

	engine.GET(s.path, s.handleCallback)
	engine.GET("/", s.handleStatus)
	return engine
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request")
	}
}

func (s *Server) handleCallback(c *gin.Context) {
	// Only a session set after this callback was dispatched answers it.
	version := s.sessions.Version()

	s.nav.Reload(c.Request.URL.RequestURI())

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	session, err := s.sessions.WaitAfter(ctx, version, auth.Settled)
	if err != nil {
		session = s.sessions.Snapshot()
	}

	switch {
	case session.State == auth.StateAuthenticated:
		c.HTML(http.StatusOK, "callback", gin.H{"OK": true})
	case session.Error != "":
		c.HTML(http.StatusBadRequest, "callback", gin.H{"OK": false, "Message": session.Error})
	default:
		c.HTML(http.StatusGatewayTimeout, "callback", gin.H{"OK": false, "Message": "Timed out waiting for the token exchange."})
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.Snapshot())
}
