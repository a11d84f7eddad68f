// Package store persists the small amount of client-side auth state
// spotlook keeps between runs: the access token and the PKCE code verifier.
package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Well-known keys.
const (
	KeyAccessToken  = "access_token"
	KeyCodeVerifier = "code_verifier"
)

// Drivers accepted by New.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Storage is a string key/value store.
//
// Get returns "" and a nil error for a missing key. Swap sets key to value
// and deletes the clear keys in one atomic step, so observers never see both
// the old and the new entries at once.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Swap(ctx context.Context, key, value string, clear ...string) error
	Close() error
}

// New opens the storage driver named by driver inside dataDir.
func New(driver, dataDir string) (Storage, error) {
	switch driver {
	case "", DriverSQLite:
		s, err := NewSQLite(filepath.Join(dataDir, "spotlook.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverFile:
		f, err := NewFile(filepath.Join(dataDir, "session.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to restore session file: %w", err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
