package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/nibzard/todo-go/internal/statedir"
)

// DotEnvFile is the dotenv file read from the working directory.
const DotEnvFile = ".env"

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. Project config file
// 4. .env file
// 5. Environment variables
// 6. CLI flags
//
// fs receives the global flags and is parsed with args; callers read the
// remaining arguments with fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}

	// 4. Export .env entries that are not already set
	dotenv, err := loadDotEnv(DotEnvFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", DotEnvFile, err)
	}

	// 5. Override from environment
	if err := loadFromEnv(cfg, dotenv); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 6. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 7. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile decodes a TOML file over cfg and records which keys it set.
func loadConfigFile(cfg *Config, path string, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	for _, key := range md.Keys() {
		cfg.setSource(key.String(), source)
	}
	for _, key := range md.Undecoded() {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// loadDotEnv exports the entries of path into the process environment
// without overriding variables that are already set, and returns the names
// it exported. A missing file is fine.
func loadDotEnv(path string) (map[string]bool, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	exported := make(map[string]bool, len(values))
	for name, value := range values {
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
		exported[name] = true
	}
	return exported, nil
}

// finalizeConfig resolves paths and fills in values derived from StateDir.
// Relative store and log paths live under StateDir.
func finalizeConfig(cfg *Config) error {
	stateDir, err := resolvePath(cfg.StateDir, "")
	if err != nil {
		return fmt.Errorf("state_dir: %w", err)
	}
	if stateDir == "" {
		return fmt.Errorf("state_dir is empty")
	}
	cfg.StateDir = stateDir

	if cfg.StoreFile == "" {
		cfg.StoreFile = statedir.StorePath(cfg.StateDir)
	}
	if cfg.StoreFile, err = resolvePath(cfg.StoreFile, cfg.StateDir); err != nil {
		return fmt.Errorf("store_file: %w", err)
	}

	if cfg.LogDir == "" {
		cfg.LogDir = statedir.LogPath(cfg.StateDir)
	}
	if cfg.LogDir, err = resolvePath(cfg.LogDir, cfg.StateDir); err != nil {
		return fmt.Errorf("log_dir: %w", err)
	}

	if cfg.StorageKey == "" {
		return fmt.Errorf("storage_key is empty")
	}
	if cfg.MaxStoreBytes < 0 {
		return fmt.Errorf("max_store_bytes must not be negative, got %d", cfg.MaxStoreBytes)
	}
	if cfg.LogKeep < 0 {
		return fmt.Errorf("log_keep must not be negative, got %d", cfg.LogKeep)
	}
	return nil
}
