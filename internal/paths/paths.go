// Package paths resolves configuration, data, and image directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names used when no override is active.
const (
	DefaultConfigDirName = ".packrat"
	DefaultDataDirName   = ".packrat-db"

	// ImageDirName is the image store directory, nested under the data dir
	// unless overridden.
	ImageDirName = "images"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PACKRAT_CONFIG_DIR"
	EnvDataDir   = "PACKRAT_DATA_DIR"
	EnvImageDir  = "PACKRAT_IMAGE_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/packrat (fallback ~/.config/packrat)
// macOS:   ~/Library/Application Support/packrat
// Windows: %APPDATA%/packrat
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "packrat"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "packrat"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "packrat"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > PACKRAT_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml value > PACKRAT_DATA_DIR env > $(CWD)/.packrat-db.
//
// The CWD-relative default keeps a checkout-local database the primary mode
// when nothing is configured.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveImageDir returns the image store directory following the precedence
// chain: flag > config.yaml value > PACKRAT_IMAGE_DIR env > <dataDir>/images.
//
// Keeping images beside the database means one directory holds the complete
// state a backup archive covers.
func ResolveImageDir(flag, configValue, dataDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvImageDir); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Join(dataDir, ImageDirName), nil
}
