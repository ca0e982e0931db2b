package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps all keys in one JSON object file.
//
// Every operation holds an OS file lock on a sibling ".lock" file, so a CLI
// invocation and a running TUI can share the same store. Writes go to a
// temp file that is renamed over the data file.
type FileStore struct {
	path     string
	lockPath string
	maxBytes int64
}

// NewFileStore creates a store backed by path, creating its directory.
func NewFileStore(path string, maxBytes int64) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{
		path:     path,
		lockPath: path + ".lock",
		maxBytes: maxBytes,
	}, nil
}

// Path returns the data file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.withLock(false, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		value, ok = data[key]
		return nil
	})
	return value, ok, err
}

// Set stores value under key.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	return s.withLock(true, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		if err := checkQuota(data, key, value, s.maxBytes); err != nil {
			return err
		}
		data[key] = value
		return s.write(data)
	})
}

// Remove deletes key. The data file is rewritten only if key was present.
func (s *FileStore) Remove(_ context.Context, key string) error {
	return s.withLock(true, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return s.write(data)
	})
}

// Close is a no-op; no descriptors are held between calls.
func (s *FileStore) Close() error {
	return nil
}

// withLock runs fn while holding the lock file, shared for readers and
// exclusive for writers.
func (s *FileStore) withLock(exclusive bool, fn func() error) error {
	lock, err := os.OpenFile(s.lockPath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lock.Close()

	if err := lockFile(lock, exclusive); err != nil {
		return fmt.Errorf("lock store: %w", err)
	}
	defer unlockFile(lock)

	return fn()
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(raw) == 0 {
		return make(map[string]string), nil
	}

	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}
	raw = append(raw, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
