package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// drivers returns a fresh instance of every Storage implementation.
func drivers(t *testing.T) map[string]Storage {
	t.Helper()

	sqlite, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	file, err := NewFile(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlite.Close()
		_ = file.Close()
	})

	return map[string]Storage{"sqlite": sqlite, "file": file}
}

func TestStorage_GetSetDelete(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get(ctx, KeyAccessToken)
			if err != nil {
				t.Fatalf("Get() on missing key: %v", err)
			}
			if got != "" {
				t.Errorf("expected empty value for missing key, got %q", got)
			}

			if err := s.Set(ctx, KeyAccessToken, "tok-1"); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if err := s.Set(ctx, KeyAccessToken, "tok-2"); err != nil {
				t.Fatalf("Set() overwrite error: %v", err)
			}
			if got, _ := s.Get(ctx, KeyAccessToken); got != "tok-2" {
				t.Errorf("expected tok-2, got %q", got)
			}

			if err := s.Set(ctx, KeyCodeVerifier, "v1"); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if err := s.Delete(ctx, KeyAccessToken, KeyCodeVerifier, "unknown"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			for _, k := range []string{KeyAccessToken, KeyCodeVerifier} {
				if got, _ := s.Get(ctx, k); got != "" {
					t.Errorf("expected %s deleted, got %q", k, got)
				}
			}
		})
	}
}

func TestStorage_Swap(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, KeyCodeVerifier, "v1"); err != nil {
				t.Fatalf("Set() error: %v", err)
			}

			if err := s.Swap(ctx, KeyAccessToken, "tok", KeyCodeVerifier); err != nil {
				t.Fatalf("Swap() error: %v", err)
			}

			if got, _ := s.Get(ctx, KeyAccessToken); got != "tok" {
				t.Errorf("expected token to be set, got %q", got)
			}
			if got, _ := s.Get(ctx, KeyCodeVerifier); got != "" {
				t.Errorf("expected verifier cleared, got %q", got)
			}

			// Listing the written key among the cleared ones keeps it.
			if err := s.Swap(ctx, KeyAccessToken, "tok-2", KeyAccessToken); err != nil {
				t.Fatalf("Swap() error: %v", err)
			}
			if got, _ := s.Get(ctx, KeyAccessToken); got != "tok-2" {
				t.Errorf("expected tok-2, got %q", got)
			}
		})
	}
}

func TestFile_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.Swap(ctx, KeyAccessToken, "persisted", KeyCodeVerifier); err != nil {
		t.Fatalf("Swap() error: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be renamed away, stat err = %v", err)
	}

	restored, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() restore error: %v", err)
	}
	if got, _ := restored.Get(ctx, KeyAccessToken); got != "persisted" {
		t.Errorf("expected restored token, got %q", got)
	}
}

func TestFile_FailedWriteKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.Set(ctx, KeyCodeVerifier, "v1"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// A directory in place of the temp file makes every write fail.
	if err := os.Mkdir(path+".tmp", 0700); err != nil {
		t.Fatalf("failed to create blocking directory: %v", err)
	}

	if err := f.Swap(ctx, KeyAccessToken, "token", KeyCodeVerifier); err == nil {
		t.Fatal("expected Swap() to fail")
	}
	if err := f.Delete(ctx, KeyCodeVerifier); err == nil {
		t.Fatal("expected Delete() to fail")
	}

	if got, _ := f.Get(ctx, KeyCodeVerifier); got != "v1" {
		t.Errorf("expected verifier to survive failed writes, got %q", got)
	}
	if got, _ := f.Get(ctx, KeyAccessToken); got != "" {
		t.Errorf("expected no token after failed Swap, got %q", got)
	}

	restored, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() restore error: %v", err)
	}
	if got, _ := restored.Get(ctx, KeyCodeVerifier); got != "v1" {
		t.Errorf("expected disk to match memory, got %q", got)
	}
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	f, err := NewFile(path)
	if err == nil {
		t.Fatal("expected error for corrupt document")
	}
	if f == nil {
		t.Fatal("expected a usable store alongside the error")
	}
	if got, _ := f.Get(context.Background(), KeyAccessToken); got != "" {
		t.Errorf("expected empty store, got %q", got)
	}
}

func TestSQLite_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "spotlook.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() error: %v", err)
	}
	if err := s.Set(ctx, KeyAccessToken, "on-disk"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	_ = s.Close()

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() reopen error: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if got, _ := reopened.Get(ctx, KeyAccessToken); got != "on-disk" {
		t.Errorf("expected on-disk, got %q", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{driver: "", wantErr: false},
		{driver: DriverSQLite, wantErr: false},
		{driver: DriverFile, wantErr: false},
		{driver: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := New(tt.driver, t.TempDir())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}
