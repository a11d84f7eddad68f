package spotify

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Config holds client configuration.
type Config struct {
	ClientID    string             // Required: Spotify application client ID
	RedirectURL string             // Optional: OAuth redirect URI registered for the app
	Scopes      []string           // Optional: Scopes requested during authorization
	Market      string             // Optional: Market used for search (defaults to DefaultMarket)
	HTTPClient  *http.Client       // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL     string             // Optional: Web API base URL (defaults to DefaultBaseURL, used for testing)
	AccountsURL string             // Optional: Accounts service URL (defaults to DefaultAccountsURL, used for testing)
	Tokens      oauth2.TokenSource // Optional: Source of the bearer token attached to API calls

	// OnUnauthorized is called once for every 401 response with the token
	// that was sent on the rejected request ("" if none was sent).
	OnUnauthorized func(token string)

	MaxRetries   int           // Optional: Attempts for retryable failures (defaults to 3)
	RetryBackoff time.Duration // Optional: Initial retry backoff (defaults to 1s)
	Logger       Logger        // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Spotify API operations.
type Client struct {
	clientID       string
	market         string
	httpClient     *http.Client
	baseURL        string
	tokens         oauth2.TokenSource
	onUnauthorized func(token string)
	maxRetries     int
	retryBackoff   time.Duration
	logger         Logger
	oauth          *oauth2.Config

	auth    *AuthService
	artists *ArtistService
}

const (
	// DefaultBaseURL is the default Spotify Web API endpoint.
	DefaultBaseURL = "https://api.spotify.com/v1"

	// DefaultAccountsURL is the default Spotify accounts service.
	DefaultAccountsURL = "https://accounts.spotify.com"

	// DefaultMarket is the market used for artist search.
	DefaultMarket = "BR"

	defaultMaxRetries   = 3
	defaultRetryBackoff = 1 * time.Second
)

// NewClient creates a new Spotify API client.
//
// Returns an error if required configuration (ClientID) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("spotify: ClientID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	accountsURL := cfg.AccountsURL
	if accountsURL == "" {
		accountsURL = DefaultAccountsURL
	}
	accountsURL = strings.TrimRight(accountsURL, "/")

	market := cfg.Market
	if market == "" {
		market = DefaultMarket
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	c := &Client{
		clientID:       cfg.ClientID,
		market:         market,
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(baseURL, "/"),
		tokens:         cfg.Tokens,
		onUnauthorized: cfg.OnUnauthorized,
		maxRetries:     maxRetries,
		retryBackoff:   backoff,
		logger:         cfg.Logger,
		oauth: &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   accountsURL + "/authorize",
				TokenURL:  accountsURL + "/api/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}

	c.auth = &AuthService{client: c}
	c.artists = &ArtistService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Artists returns the artist read service.
func (c *Client) Artists() *ArtistService {
	return c.artists
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
