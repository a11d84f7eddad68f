package spotify

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
)

var verifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{43,128}$`)

// TestGeneratePKCE tests verifier shape and challenge derivation.
func TestGeneratePKCE(t *testing.T) {
	pkce, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() error: %v", err)
	}

	if !verifierPattern.MatchString(pkce.Verifier) {
		t.Errorf("verifier %q is not 43-128 URL-safe characters", pkce.Verifier)
	}

	sum := sha256.Sum256([]byte(pkce.Verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if pkce.Challenge != want {
		t.Errorf("expected challenge %q, got %q", want, pkce.Challenge)
	}

	other, err := GeneratePKCE()
	if err != nil {
		t.Fatalf("GeneratePKCE() error: %v", err)
	}
	if other.Verifier == pkce.Verifier {
		t.Error("expected a fresh verifier on every call")
	}
}

// TestGeneratePKCE_RFC7636Vector checks the challenge against the RFC 7636 appendix B example.
func TestGeneratePKCE_RFC7636Vector(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	sum := sha256.Sum256([]byte(verifier))
	got := base64.RawURLEncoding.EncodeToString(sum[:])
	if got != "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM" {
		t.Errorf("unexpected challenge %q", got)
	}
}

// TestAuthService_AuthCodeURL tests the authorize redirect URL.
func TestAuthService_AuthCodeURL(t *testing.T) {
	client, err := NewClient(Config{
		ClientID:    "my-client-id",
		RedirectURL: "http://127.0.0.1:5173/auth",
		Scopes:      []string{"user-read-private", "user-read-email"},
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	pkce := PKCE{Verifier: "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"}
	raw := client.Auth().AuthCodeURL(pkce)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse URL: %v", err)
	}
	if got := u.Scheme + "://" + u.Host + u.Path; got != "https://accounts.spotify.com/authorize" {
		t.Errorf("expected authorize endpoint, got %q", got)
	}

	q := u.Query()
	want := map[string]string{
		"response_type":         "code",
		"client_id":             "my-client-id",
		"redirect_uri":          "http://127.0.0.1:5173/auth",
		"code_challenge":        "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		"code_challenge_method": "S256",
		"scope":                 "user-read-private user-read-email",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("expected %s=%q, got %q", k, v, got)
		}
	}
}

// TestAuthService_Exchange tests the token exchange.
func TestAuthService_Exchange(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		statusCode  int
		wantToken   string
		wantErr     bool
		errContains string
	}{
		{
			name:       "success",
			response:   `{"access_token":"token-123","token_type":"Bearer","expires_in":3600}`,
			statusCode: http.StatusOK,
			wantToken:  "token-123",
		},
		{
			name:        "missing access token",
			response:    `{"token_type":"Bearer","expires_in":3600}`,
			statusCode:  http.StatusOK,
			wantErr:     true,
			errContains: "authentication failed",
		},
		{
			name:        "invalid grant",
			response:    `{"error":"invalid_grant","error_description":"Invalid authorization code"}`,
			statusCode:  http.StatusBadRequest,
			wantErr:     true,
			errContains: "Invalid authorization code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/api/token" {
					t.Errorf("expected /api/token, got %s", r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
					t.Errorf("expected Content-Type application/x-www-form-urlencoded, got %s", ct)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}

				want := map[string]string{
					"client_id":     "test-client",
					"grant_type":    "authorization_code",
					"code":          "abc",
					"redirect_uri":  "http://127.0.0.1:5173/auth",
					"code_verifier": "v1",
				}
				for k, v := range want {
					if got := r.PostForm.Get(k); got != v {
						t.Errorf("expected %s=%q, got %q", k, v, got)
					}
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client, err := NewClient(Config{
				ClientID:    "test-client",
				RedirectURL: "http://127.0.0.1:5173/auth",
				AccountsURL: server.URL,
			})
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			token, err := client.Auth().Exchange(context.Background(), "abc", "v1")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Errorf("expected *AuthError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error to contain %q, got %q", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token.AccessToken != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, token.AccessToken)
			}
		})
	}
}

// TestAuthService_Exchange_Unreachable tests that transport failures are AuthErrors.
func TestAuthService_Exchange_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client, err := NewClient(Config{ClientID: "test-client", AccountsURL: serverURL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.Auth().Exchange(context.Background(), "abc", "v1")
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
}

// TestAuthService_Exchange_MissingInputs tests argument validation.
func TestAuthService_Exchange_MissingInputs(t *testing.T) {
	client, err := NewClient(Config{ClientID: "test-client"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.Auth().Exchange(context.Background(), "", "v1"); err == nil {
		t.Error("expected error for empty code")
	}
	if _, err := client.Auth().Exchange(context.Background(), "abc", ""); err == nil {
		t.Error("expected error for empty verifier")
	}
}

func TestNewClient_RequiresClientID(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing ClientID")
	}
}
