// Package xdg provides XDG Base Directory Specification compliant paths
package xdg

import (
	"os"
	"path/filepath"

	"outofschool/internal/constants"
)

// ConfigDir returns the XDG config directory
// Priority: XDG_CONFIG_HOME > ~/.config/outofschool
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory, home of the database and the search index
// Priority: XDG_DATA_HOME > ~/.local/share/outofschool
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", ".local", "share")
}

func resolve(envVar string, homeRelative ...string) (string, error) {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, constants.AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{homeDir}, homeRelative...)
	return filepath.Join(append(parts, constants.AppName)...), nil
}
