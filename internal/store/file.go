package store

import (
	"context"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// File is a Storage kept in a single JSON document.
type File struct {
	mu       sync.RWMutex
	values   map[string]string
	filePath string
}

// NewFile creates a File store, restoring existing values from filePath.
// An empty filePath keeps everything in memory.
func NewFile(filePath string) (*File, error) {
	f := &File{
		values:   make(map[string]string),
		filePath: filePath,
	}

	if filePath != "" {
		if err := f.restore(); err != nil && !os.IsNotExist(err) {
			return f, err
		}
	}

	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.values[key], nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	return f.Swap(ctx, key, value)
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := maps.Clone(f.values)
	for _, k := range keys {
		delete(f.values, k)
	}
	return f.commit(prev)
}

func (f *File) Swap(_ context.Context, key, value string, clear ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := maps.Clone(f.values)
	f.values[key] = value
	for _, k := range clear {
		if k != key {
			delete(f.values, k)
		}
	}
	return f.commit(prev)
}

func (f *File) Close() error {
	return nil
}

// commit persists the current values, rolling back to prev when the write
// fails. Must be called with lock held
func (f *File) commit(prev map[string]string) error {
	if err := f.persist(); err != nil {
		f.values = prev
		return err
	}
	return nil
}

// persist writes the document to disk.
// Must be called with lock held
func (f *File) persist() error {
	if f.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.filePath), 0700); err != nil {
		return err
	}

	// Write atomically via temp file + rename
	tmpPath := f.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, f.filePath)
}

func (f *File) restore() error {
	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return err
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if values == nil {
		values = make(map[string]string)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = values
	return nil
}
