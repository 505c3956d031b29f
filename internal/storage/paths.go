// Package storage keeps user preferences and match statistics in a local
// key-value store.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName = "chessduel"
	dbName  = "db"
)

// DataDir returns the per-user directory the game writes to, creating it
// when missing. It is $XDG_DATA_HOME/chessduel on Unix (falling back to
// ~/.local/share), ~/Library/Application Support/chessduel on macOS and
// %APPDATA%\chessduel on Windows.
func DataDir() (string, error) {
	base, err := platformBase(runtime.GOOS, os.Getenv, os.UserHomeDir)
	if err != nil {
		return "", fmt.Errorf("storage: locate data directory: %w", err)
	}
	return ensureDir(base, appName)
}

// DatabaseDir returns the BadgerDB directory inside root. An empty root
// stands for DataDir.
func DatabaseDir(root string) (string, error) {
	if root == "" {
		var err error
		if root, err = DataDir(); err != nil {
			return "", err
		}
	}
	return ensureDir(root, dbName)
}

// platformBase picks the parent of the application directory for goos. An
// environment override wins over the home-relative default.
func platformBase(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	var override string
	var fallback []string
	switch goos {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		override = getenv("APPDATA")
		fallback = []string{"AppData", "Roaming"}
	default:
		override = getenv("XDG_DATA_HOME")
		fallback = []string{".local", "share"}
	}
	if override != "" {
		return override, nil
	}

	h, err := home()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{h}, fallback...)...), nil
}

func ensureDir(elem ...string) (string, error) {
	dir := filepath.Join(elem...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return dir, nil
}
