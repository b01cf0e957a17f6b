package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the hidef home directory.
	DefaultDirName = ".hidef"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// LogDirName is the subdirectory for server logs.
	LogDirName = "logs"
)

// Dir represents the hidef home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.hidef).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// LogPath returns the path to the logs directory.
func (d *Dir) LogPath() string {
	return filepath.Join(d.path, LogDirName)
}

// ServerLogPath returns the path of the server log file.
func (d *Dir) ServerLogPath() string {
	return filepath.Join(d.LogPath(), "server.log")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create logs directory (this also creates the parent)
	if err := os.MkdirAll(d.LogPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
