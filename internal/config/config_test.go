package config

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Spotify.RedirectURI != DefaultRedirectURI {
		t.Errorf("RedirectURI = %q", cfg.Spotify.RedirectURI)
	}
	if cfg.Spotify.Market != "BR" {
		t.Errorf("Market = %q", cfg.Spotify.Market)
	}
	if !reflect.DeepEqual(cfg.Spotify.Scopes, DefaultScopes) {
		t.Errorf("Scopes = %v", cfg.Spotify.Scopes)
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %s", cfg.Search.Debounce)
	}
	if cfg.Auth.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %s", cfg.Auth.Timeout)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Driver = %q", cfg.Storage.Driver)
	}
	if want := filepath.Join(home, ".local", "share", "spotlook"); cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPOTLOOK_SPOTIFY_CLIENT_ID", "env-client")
	t.Setenv("SPOTLOOK_SPOTIFY_SCOPES", "user-read-private playlist-read-private")
	t.Setenv("SPOTLOOK_STORAGE_DRIVER", "file")
	t.Setenv("SPOTLOOK_SEARCH_DEBOUNCE", "150ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Spotify.ClientID != "env-client" {
		t.Errorf("ClientID = %q", cfg.Spotify.ClientID)
	}
	if want := []string{"user-read-private", "playlist-read-private"}; !reflect.DeepEqual(cfg.Spotify.Scopes, want) {
		t.Errorf("Scopes = %v, want %v", cfg.Spotify.Scopes, want)
	}
	if cfg.Storage.Driver != "file" {
		t.Errorf("Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Search.Debounce != 150*time.Millisecond {
		t.Errorf("Debounce = %s", cfg.Search.Debounce)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.Spotify.ClientID = "saved-client"
	cfg.Storage.Driver = "file"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Spotify.ClientID != "saved-client" {
		t.Errorf("ClientID = %q", loaded.Spotify.ClientID)
	}
	if loaded.Storage.Driver != "file" {
		t.Errorf("Driver = %q", loaded.Storage.Driver)
	}
	if loaded.Search.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %s", loaded.Search.Debounce)
	}
}
