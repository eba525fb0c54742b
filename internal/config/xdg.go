// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func XDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns $XDG_DATA_HOME, defaulting to ~/.local/share.
func XDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// xdgDir falls back to a directory under home, or the working directory when home is
// unknown.
func xdgDir(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "bihua", "bihua.db")
}

// DefaultLogPath returns the log file used while a TUI owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), "bihua", "bihua.log")
}

// DefaultListDir returns the directory searched for named practice lists.
func DefaultListDir() string {
	return filepath.Join(XDGConfigHome(), "bihua", "lists")
}

// ResolveListPath maps a bare list name to a file in DefaultListDir. Paths are returned as is.
func ResolveListPath(name string) string {
	if name == "" || filepath.IsAbs(name) || filepath.Ext(name) != "" || filepath.Base(name) != name {
		return name
	}
	return filepath.Join(DefaultListDir(), name+".txt")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "bihua", "config.toml")
}
