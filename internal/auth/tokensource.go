package auth

import (
	"context"
	"fmt"

	"github.com/jfmyers9/spotlook/internal/store"
	"golang.org/x/oauth2"
)

// StoreTokenSource reads the persisted access token on every call, so a
// token cleared by Logout or a 401 stops being sent immediately.
type StoreTokenSource struct {
	Store store.Storage
}

// Token returns the persisted token. A missing token yields an empty
// *oauth2.Token, which the API client treats as "send unauthenticated".
func (s StoreTokenSource) Token() (*oauth2.Token, error) {
	value, err := s.Store.Get(context.Background(), store.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if value == "" {
		return &oauth2.Token{}, nil
	}
	return &oauth2.Token{AccessToken: value, TokenType: "Bearer"}, nil
}
