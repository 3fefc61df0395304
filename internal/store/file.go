package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// File is a Store backed by a single JSON object on disk. Every Set
// rewrites the file atomically.
type File struct {
	path   string
	logger *log.Logger

	mu     sync.Mutex
	values map[string]string
}

// OpenFile loads the store at path. A missing file is an empty store; a
// corrupt file is logged and treated as empty, and is replaced on the next
// write.
func OpenFile(path string, logger *log.Logger) (*File, error) {
	f := &File{
		path:   path,
		logger: logger.WithPrefix("store"),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &f.values); err != nil {
			f.logger.Warn("Store file is corrupt, starting empty", "path", path, "error", err)
			f.values = make(map[string]string)
		}
	}
	return f, nil
}

// Path returns the file location
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key
func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// Set stores value under key and flushes the file
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

// Delete removes key and flushes the file
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	if !had {
		return nil
	}
	delete(f.values, key)
	if err := f.flush(); err != nil {
		f.values[key] = prev
		return err
	}
	return nil
}

func (f *File) flush() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return writeFileAtomic(f.path, data, 0o644)
}
