package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TODO_* environment variables.
// Variables named in dotenv were exported from the .env file and are
// recorded with that source.
func loadFromEnv(cfg *Config, dotenv map[string]bool) error {
	sourceOf := func(name string) ConfigSource {
		if dotenv[name] {
			return SourceDotEnv
		}
		return SourceEnv
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			cfg.setSource(field, sourceOf(name))
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(name); v != "" {
			*target = boolFromString(v)
			cfg.setSource(field, sourceOf(name))
		}
	}
	var errs []string
	integer := func(name, field string, set func(int64)) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s=%q is not an integer", name, v))
			return
		}
		set(i)
		cfg.setSource(field, sourceOf(name))
	}

	str("TODO_STATE_DIR", "state_dir", &cfg.StateDir)
	str("TODO_STORAGE_KEY", "storage_key", &cfg.StorageKey)
	str("TODO_BACKEND", "backend", &cfg.Backend)
	str("TODO_STORE_FILE", "store_file", &cfg.StoreFile)
	integer("TODO_MAX_STORE_BYTES", "max_store_bytes", func(i int64) { cfg.MaxStoreBytes = i })

	str("TODO_REDIS_ADDR", "redis_addr", &cfg.RedisAddr)
	str("TODO_REDIS_PASSWORD", "redis_password", &cfg.RedisPassword)
	integer("TODO_REDIS_DB", "redis_db", func(i int64) { cfg.RedisDB = int(i) })
	str("TODO_REDIS_PREFIX", "redis_prefix", &cfg.RedisPrefix)

	str("TODO_LOG_DIR", "log_dir", &cfg.LogDir)
	str("TODO_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("TODO_LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("TODO_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("TODO_LOG_CALLER", "log_caller", &cfg.LogCaller)
	integer("TODO_LOG_KEEP", "log_keep", func(i int64) { cfg.LogKeep = int(i) })

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
