package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Directory for the session store (default: ~/.local/share/spotlook)
	DataDir string

	Spotify SpotifyConfig
	Storage StorageConfig
	Search  SearchConfig
	Auth    AuthConfig
	Log     LogConfig
}

// SpotifyConfig holds Spotify application settings
type SpotifyConfig struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	Market      string
	APIURL      string
	AccountsURL string
}

// StorageConfig selects the session store driver ("sqlite" or "file")
type StorageConfig struct {
	Driver string
}

// SearchConfig tunes interactive search
type SearchConfig struct {
	Debounce time.Duration
}

// AuthConfig bounds the browser sign-in
type AuthConfig struct {
	Timeout time.Duration
}

// LogConfig holds logging defaults; command-line flags override them
type LogConfig struct {
	File  string
	Level string
}

// Default values
const (
	DefaultRedirectURI = "http://127.0.0.1:5173/auth"
	DefaultMarket      = "BR"
	DefaultDebounce    = 300 * time.Millisecond
	DefaultAuthTimeout = 2 * time.Minute
)

// DefaultScopes are requested when spotify.scopes is not set.
var DefaultScopes = []string{"user-read-private", "user-read-email"}

// Load reads configuration from .env, the config file and environment
func Load() (*Config, error) {
	// A .env in the working directory seeds the environment.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	v.AddConfigPath(getConfigDir())
	v.AddConfigPath(".")

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("spotify.redirect_uri", DefaultRedirectURI)
	v.SetDefault("spotify.scopes", DefaultScopes)
	v.SetDefault("spotify.market", DefaultMarket)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("search.debounce", DefaultDebounce)
	v.SetDefault("auth.timeout", DefaultAuthTimeout)
	v.SetDefault("log.level", "info")

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// SPOTLOOK_SPOTIFY_CLIENT_ID overrides spotify.client_id, and so on
	v.SetEnvPrefix("SPOTLOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		DataDir: v.GetString("data_dir"),
		Spotify: SpotifyConfig{
			ClientID:    v.GetString("spotify.client_id"),
			RedirectURI: v.GetString("spotify.redirect_uri"),
			Scopes:      scopes(v.GetStringSlice("spotify.scopes")),
			Market:      v.GetString("spotify.market"),
			APIURL:      v.GetString("spotify.api_url"),
			AccountsURL: v.GetString("spotify.accounts_url"),
		},
		Storage: StorageConfig{
			Driver: v.GetString("storage.driver"),
		},
		Search: SearchConfig{
			Debounce: v.GetDuration("search.debounce"),
		},
		Auth: AuthConfig{
			Timeout: v.GetDuration("auth.timeout"),
		},
		Log: LogConfig{
			File:  v.GetString("log.file"),
			Level: v.GetString("log.level"),
		},
	}

	return cfg, nil
}

// scopes accepts both a YAML list and a space separated string (as the
// environment provides it).
func scopes(raw []string) []string {
	var out []string
	for _, s := range raw {
		out = append(out, strings.Fields(s)...)
	}
	return out
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "spotlook")

	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "spotlook")
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	configFile := filepath.Join(getConfigDir(), "config.yaml")

	v.Set("data_dir", c.DataDir)
	v.Set("spotify.client_id", c.Spotify.ClientID)
	v.Set("spotify.redirect_uri", c.Spotify.RedirectURI)
	v.Set("spotify.scopes", c.Spotify.Scopes)
	v.Set("spotify.market", c.Spotify.Market)
	if c.Spotify.APIURL != "" {
		v.Set("spotify.api_url", c.Spotify.APIURL)
	}
	if c.Spotify.AccountsURL != "" {
		v.Set("spotify.accounts_url", c.Spotify.AccountsURL)
	}
	v.Set("storage.driver", c.Storage.Driver)
	v.Set("search.debounce", c.Search.Debounce.String())
	v.Set("auth.timeout", c.Auth.Timeout.String())
	if c.Log.File != "" {
		v.Set("log.file", c.Log.File)
	}
	v.Set("log.level", c.Log.Level)

	return v.WriteConfigAs(configFile)
}
