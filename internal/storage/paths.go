// Package storage persists preferences, finished games and statistics.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "bitchess"

// platformDataHome is the per-user data root: Application Support on
// macOS, %APPDATA% on Windows and $XDG_DATA_HOME elsewhere.
func platformDataHome() (string, error) {
	var env string
	var fallback []string

	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the bitchess directory under the platform data root,
// creating it if needed.
func GetDataDir() (string, error) {
	home, err := platformDataHome()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(home, appName))
}

// GetDatabaseDir returns the directory holding the BadgerDB files.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}
