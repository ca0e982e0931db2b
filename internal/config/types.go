package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = ".env"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultStorageKey = "todos"
	DefaultBackend    = "file"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultLogKeep    = 10
	DefaultRedisAddr  = "localhost:6379"
	DefaultRedisPfx   = "todo:"
)

// Config holds the full configuration for todo.
type Config struct {
	// Storage
	StateDir      string `toml:"state_dir"`
	StorageKey    string `toml:"storage_key"`
	Backend       string `toml:"backend"`
	StoreFile     string `toml:"store_file"`
	MaxStoreBytes int64  `toml:"max_store_bytes"`

	// Redis backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	// Logging
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogKeep       int    `toml:"log_keep"`

	// Files applied during loading, in order.
	Files []string `toml:"-"`

	// Unknown keys found in config files.
	Warnings []string `toml:"-"`

	// Sources maps each field's TOML key to where its value came from.
	Sources map[string]ConfigSource `toml:"-"`
}

// configFields returns the configurable field names for source tracking.
func configFields() []string {
	return []string{
		"state_dir",
		"storage_key",
		"backend",
		"store_file",
		"max_store_bytes",
		"redis_addr",
		"redis_password",
		"redis_db",
		"redis_prefix",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_keep",
	}
}

// Source returns where the named field's value came from.
func (c *Config) Source(field string) ConfigSource {
	if s, ok := c.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

func (c *Config) setSource(field string, source ConfigSource) {
	if c.Sources == nil {
		c.Sources = make(map[string]ConfigSource)
	}
	c.Sources[field] = source
}
