package storage

import (
	"fmt"
	"os"

	"github.com/taxdesk/clientsearch/internal/config"
)

// FileModeDir is the permission for the state directory (rwxr-xr-x).
const FileModeDir os.FileMode = 0755

// GetStateDir returns the state directory path from the loaded configuration.
func GetStateDir() string {
	return config.Get("state_dir", "")
}

// ensureStateDir creates the state directory.
func ensureStateDir() (string, error) {
	dir := GetStateDir()
	if dir == "" {
		return "", fmt.Errorf("storage initialization failed: state_dir not configured")
	}
	if err := os.MkdirAll(dir, FileModeDir); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}
