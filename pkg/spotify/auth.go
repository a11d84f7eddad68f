package spotify

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// verifierBytes is the amount of entropy behind a code verifier. 64 bytes
// encode to 86 characters, inside the 43-128 range of RFC 7636.
const verifierBytes = 64

// PKCE is a code verifier and the S256 challenge derived from it.
type PKCE struct {
	Verifier  string
	Challenge string
}

// GeneratePKCE creates a new code verifier from crypto/rand and derives
// its challenge as base64url(SHA-256(verifier)).
//
// It returns an error if the system random source fails.
func GeneratePKCE() (PKCE, error) {
	buf := make([]byte, verifierBytes)
	if _, err := rand.Read(buf); err != nil {
		return PKCE{}, fmt.Errorf("spotify: failed to generate code verifier: %w", err)
	}

	verifier := base64.RawURLEncoding.EncodeToString(buf)
	return PKCE{
		Verifier:  verifier,
		Challenge: oauth2.S256ChallengeFromVerifier(verifier),
	}, nil
}

// Token is the result of a successful authorization code exchange.
type Token struct {
	AccessToken string
	TokenType   string
}

// AuthService provides the OAuth operations for the Spotify accounts service.
type AuthService struct {
	client *Client
}

// AuthCodeURL returns the URL where the user authorizes the application.
//
// The URL carries response_type=code, the client id, the redirect URI, the
// requested scopes and the S256 challenge of pkce.
//
// Example:
//
//	pkce, err := spotify.GeneratePKCE()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Please visit:", client.Auth().AuthCodeURL(pkce))
func (a *AuthService) AuthCodeURL(pkce PKCE) string {
	return a.client.oauth.AuthCodeURL("", oauth2.S256ChallengeOption(pkce.Verifier))
}

// Exchange trades an authorization code and its verifier for an access token.
//
// The request is a form-encoded POST carrying client_id,
// grant_type=authorization_code, code, redirect_uri and code_verifier.
// Exchange never stores the token; that is up to the caller.
//
// Any failure is returned as *AuthError.
func (a *AuthService) Exchange(ctx context.Context, code, verifier string) (*Token, error) {
	if code == "" {
		return nil, &AuthError{Reason: "authorization code required"}
	}
	if verifier == "" {
		return nil, &AuthError{Reason: "code verifier required"}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client.httpClient)

	a.client.logDebugf("spotify: exchanging authorization code")
	tok, err := a.client.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			reason := retrieveErr.ErrorDescription
			if reason == "" {
				reason = retrieveErr.ErrorCode
			}
			if reason == "" {
				reason = fmt.Sprintf("token endpoint returned status %d", retrieveErr.Response.StatusCode)
			}
			return nil, &AuthError{Reason: reason, Err: err}
		}
		return nil, &AuthError{Reason: "token request failed", Err: err}
	}

	if tok.AccessToken == "" {
		return nil, &AuthError{Reason: "no access token received"}
	}

	return &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
	}, nil
}
