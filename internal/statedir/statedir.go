// Package statedir describes the layout of the todo state directory.
package statedir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the state directory under the home directory.
	Dir = ".todo"

	// StoreFile is the file backend's data file.
	StoreFile = "store.json"

	// ConfigFile is the user config file.
	ConfigFile = "todo.toml"

	// LogsDir holds per-run log files.
	LogsDir = "logs"
)

// Default returns ~/.todo, or ".todo" when the home directory is unknown.
func Default() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// StorePath returns the store file path within a state directory.
func StorePath(stateDir string) string {
	return filepath.Join(resolve(stateDir), StoreFile)
}

// ConfigPath returns the config file path within a state directory.
func ConfigPath(stateDir string) string {
	return filepath.Join(resolve(stateDir), ConfigFile)
}

// LogPath returns the log directory within a state directory.
func LogPath(stateDir string) string {
	return filepath.Join(resolve(stateDir), LogsDir)
}

func resolve(stateDir string) string {
	if stateDir == "" || stateDir == "." {
		return Dir
	}
	return stateDir
}
