package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetConfigDir returns the directory holding config.toml:
// ~/.config/pilotchat (USERPROFILE-anchored on Windows).
func GetConfigDir() string {
	return filepath.Join(homeDir(), ".config", "pilotchat")
}

// GetConfigFilePath returns the path to config.toml
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// ExpandPath expands a leading ~ and any environment variables
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		path = filepath.Join(homeDir(), strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates a directory if it doesn't exist (0700 - user-only access)
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}
