package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfmyers9/spotlook/internal/auth"
	"github.com/jfmyers9/spotlook/internal/config"
	"github.com/jfmyers9/spotlook/internal/query"
	"github.com/jfmyers9/spotlook/internal/router"
	"github.com/jfmyers9/spotlook/internal/server"
	"github.com/jfmyers9/spotlook/internal/store"
	"github.com/jfmyers9/spotlook/pkg/spotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app wires the session store, router, auth controller, callback server
// and query layer for a single command run.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	store   store.Storage
	router  *router.Router
	auth    *auth.Controller
	client  *spotify.Client
	queries *query.Queries
	server  *server.Server

	serverErr error
	cancel    context.CancelFunc
	done      chan struct{}
}

// appOptions adjusts wiring for the interactive UI.
type appOptions struct {
	// logOutput receives logs when no log file is configured.
	logOutput io.Writer
	// prompt receives the sign-in instructions.
	prompt io.Writer
}

// newApp loads configuration and starts the background pieces (router
// loop and callback listener). Callers must call close.
func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Spotify.ClientID == "" {
		return nil, fmt.Errorf("Spotify client id not configured. Run 'spotlook auth' first")
	}

	if opts.logOutput == nil {
		opts.logOutput = os.Stderr
	}
	if opts.prompt == nil {
		opts.prompt = cmd.ErrOrStderr()
	}

	file, level := cfg.Log.File, cfg.Log.Level
	if logFile != "" {
		file = logFile
	}
	if logLevel != "" {
		level = logLevel
	}
	logger := setupLogger(file, level, opts.logOutput)

	dir := cfg.DataDir
	if dataDir != "" {
		dir = dataDir
	}

	st, err := store.New(cfg.Storage.Driver, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	logger.Debug().Str("driver", cfg.Storage.Driver).Str("data_dir", dir).Msg("Opened session store")

	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  st,
		router: router.New(logger),
		done:   make(chan struct{}),
	}

	nav := router.NewBrowserNavigator(a.router, opts.prompt, logger)

	a.client, err = spotify.NewClient(spotify.Config{
		ClientID:    cfg.Spotify.ClientID,
		RedirectURL: cfg.Spotify.RedirectURI,
		Scopes:      cfg.Spotify.Scopes,
		Market:      cfg.Spotify.Market,
		BaseURL:     cfg.Spotify.APIURL,
		AccountsURL: cfg.Spotify.AccountsURL,
		Tokens:      auth.StoreTokenSource{Store: st},
		OnUnauthorized: func(token string) {
			a.auth.HandleUnauthorized(token)
		},
		Logger: sdkLogger{logger: logger.With().Str("component", "spotify").Logger()},
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	a.auth = auth.NewController(st, a.client.Auth(), nav, logger)
	a.auth.Bind(a.router)
	a.queries = query.NewQueries(a.client.Artists(), query.NewCache(logger))

	a.server, err = server.New(cfg.Spotify.RedirectURI, a.auth, a.router, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if err := a.server.Start(); err != nil {
		// Only needed if a sign-in happens; reported then.
		logger.Warn().Err(err).Msg("Callback server unavailable")
		a.serverErr = err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		defer close(a.done)
		_ = a.router.Run(ctx)
	}()

	return a, nil
}

// ensureSession mounts the app at the root location and waits until the
// session is authenticated, running the browser sign-in if needed.
func (a *app) ensureSession(ctx context.Context) error {
	timeout := a.cfg.Auth.Timeout
	if timeout <= 0 {
		timeout = config.DefaultAuthTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a.router.Navigate(router.PathRoot)

	s, err := a.auth.Wait(ctx, auth.Settled)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			if a.serverErr != nil {
				return fmt.Errorf("timed out waiting for Spotify authorization (callback server: %v)", a.serverErr)
			}
			return fmt.Errorf("timed out after %s waiting for Spotify authorization", timeout)
		}
		return err
	}
	if s.State != auth.StateAuthenticated {
		return fmt.Errorf("authentication failed: %s", s.Error)
	}
	return nil
}

// fetchWithSession runs fetch once a session exists. If the token turns out
// to be expired, it waits for the new sign-in and tries once more.
func fetchWithSession[T any](ctx context.Context, a *app, fetch func(context.Context) query.Result[T]) (T, error) {
	var zero T
	if err := a.ensureSession(ctx); err != nil {
		return zero, err
	}

	r := fetch(ctx)
	if r.Failure != nil && r.Failure.Kind == query.AuthExpired {
		a.logger.Info().Msg("Access token expired, signing in again")
		if err := a.ensureSession(ctx); err != nil {
			return zero, err
		}
		r = fetch(ctx)
	}

	switch r.Status {
	case query.StatusSuccess:
		return r.Data, nil
	case query.StatusError:
		return zero, r.Err()
	default:
		return zero, fmt.Errorf("request did not complete: %w", ctx.Err())
	}
}

func (a *app) close() {
	a.cancel()
	<-a.done

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to stop callback server")
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close session store")
	}
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
