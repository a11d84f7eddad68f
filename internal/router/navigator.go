package router

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/skratchdot/open-golang/open"
)

// BrowserNavigator performs external redirects in the system browser and
// in-app navigation through a Router.
type BrowserNavigator struct {
	router *Router
	out    io.Writer
	open   func(string) error
	logger zerolog.Logger
}

// NewBrowserNavigator creates a navigator. The redirect URL is also printed
// to out so it can be opened by hand when no browser is available.
func NewBrowserNavigator(r *Router, out io.Writer, logger zerolog.Logger) *BrowserNavigator {
	if out == nil {
		out = io.Discard
	}
	return &BrowserNavigator{
		router: r,
		out:    out,
		open:   open.Run,
		logger: logger.With().Str("component", "navigator").Logger(),
	}
}

// Redirect opens url in the system browser.
func (n *BrowserNavigator) Redirect(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(n.out, "\nOpening your browser to authorize spotlook.\nIf it does not open, visit:\n\n  %s\n\n", url)

	if err := n.open(url); err != nil {
		// The printed URL still works, so this is not fatal.
		n.logger.Warn().Err(err).Msg("Failed to open browser")
		return nil
	}
	n.logger.Debug().Msg("Opened authorization page in browser")
	return nil
}

func (n *BrowserNavigator) Navigate(target string) {
	n.router.Navigate(target)
}

func (n *BrowserNavigator) Reload(target string) {
	n.router.Reload(target)
}
