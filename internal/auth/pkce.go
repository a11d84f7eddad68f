package auth

import (
	"context"
	"fmt"

	"github.com/jfmyers9/spotlook/internal/store"
	"github.com/jfmyers9/spotlook/pkg/spotify"
)

// Authorizer builds authorize URLs and exchanges codes.
// *spotify.AuthService implements it.
type Authorizer interface {
	AuthCodeURL(pkce spotify.PKCE) string
	Exchange(ctx context.Context, code, verifier string) (*spotify.Token, error)
}

// Navigator moves the user between locations.
type Navigator interface {
	// Redirect leaves the app for an external URL.
	Redirect(ctx context.Context, url string) error
	// Navigate changes the in-app location if it differs from the current one.
	Navigate(target string)
	// Reload re-enters target even when it is the current location.
	Reload(target string)
}

// PKCEStarter begins an authorization: it persists a fresh code verifier
// and redirects to the authorize URL carrying its challenge.
type PKCEStarter struct {
	store    store.Storage
	auth     Authorizer
	nav      Navigator
	generate func() (spotify.PKCE, error)
}

func NewPKCEStarter(s store.Storage, a Authorizer, nav Navigator) *PKCEStarter {
	return &PKCEStarter{
		store:    s,
		auth:     a,
		nav:      nav,
		generate: spotify.GeneratePKCE,
	}
}

// Start runs the flow. The verifier is stored before the redirect happens.
func (p *PKCEStarter) Start(ctx context.Context) (spotify.PKCE, error) {
	pkce, err := p.generate()
	if err != nil {
		return spotify.PKCE{}, err
	}

	if err := p.store.Set(ctx, store.KeyCodeVerifier, pkce.Verifier); err != nil {
		return spotify.PKCE{}, fmt.Errorf("failed to store code verifier: %w", err)
	}

	if err := p.nav.Redirect(ctx, p.auth.AuthCodeURL(pkce)); err != nil {
		return spotify.PKCE{}, fmt.Errorf("failed to redirect to authorization: %w", err)
	}
	return pkce, nil
}
