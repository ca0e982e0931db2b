// Package kv defines the durable key-value string store the task list is
// mirrored to, and its backends.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuotaExceeded is returned by Set when the write would push the
	// store past its configured size limit.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store is a string-to-string key-value store.
//
// A missing key is not an error: Get reports it with ok == false, and
// Remove of a missing key succeeds.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Path is the file backend's data file.
	Path string

	// MaxBytes caps the total size of keys and values. Zero means no limit.
	MaxBytes int64

	Redis RedisOptions
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Open creates the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileStore(opts.Path, opts.MaxBytes)
	case BackendMemory:
		return NewMemoryStore(opts.MaxBytes), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis, opts.MaxBytes)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// usage returns the quota-relevant size of a key/value map.
func usage(m map[string]string) int64 {
	var n int64
	for k, v := range m {
		n += int64(len(k) + len(v))
	}
	return n
}

// checkQuota reports ErrQuotaExceeded if setting key to value in m would
// exceed maxBytes.
func checkQuota(m map[string]string, key, value string, maxBytes int64) error {
	if maxBytes <= 0 {
		return nil
	}
	n := usage(m)
	if old, ok := m[key]; ok {
		n -= int64(len(key) + len(old))
	}
	n += int64(len(key) + len(value))
	if n > maxBytes {
		return fmt.Errorf("%w: %d bytes needed, limit %d", ErrQuotaExceeded, n, maxBytes)
	}
	return nil
}
