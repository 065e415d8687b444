// Package paths resolves file system locations for the vaultconfig store.
//
// The default store directory follows the XDG base directory specification:
// ~/.config/vaultconfig/configs on Linux, the platform equivalent elsewhere.
// The VAULTCONFIG_DIR environment variable overrides the default.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the application name used for directory and config file naming.
const AppName = "vaultconfig"

// EnvStoreDir is the environment variable overriding the store directory.
const EnvStoreDir = "VAULTCONFIG_DIR"

// DefaultDirPerm is the permission for newly created store directories (private).
const DefaultDirPerm = 0o700

// SecureFilePerm is the permission forced onto every written config file
// (owner read/write only).
const SecureFilePerm = 0o600

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// EnsureDir creates the directory and any necessary parents with the given
// permissions. If perm is 0, DefaultDirPerm (0700) is used. It is idempotent.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DefaultStoreDir returns the default directory holding config entries.
// It is a subdirectory of the tool's config home so the settings file
// next to it is never mistaken for a store entry.
func DefaultStoreDir() string {
	return filepath.Join(xdg.ConfigHome, AppName, "configs")
}

// StoreDir resolves the store directory from, in order: the explicit value
// (a --config-dir flag), the VAULTCONFIG_DIR environment variable, and the
// platform default. Tildes are expanded in explicit values.
func StoreDir(explicit string) string {
	if explicit != "" {
		return ExpandHome(explicit)
	}
	if env := os.Getenv(EnvStoreDir); env != "" {
		return ExpandHome(env)
	}
	return DefaultStoreDir()
}

// ExpandHome replaces a leading "~" with the user's home directory.
// The path is returned unchanged when the home directory is unknown.
func ExpandHome(path string) string {
	if path == "~" {
		home, err := ResolveHome()
		if err != nil {
			return path
		}
		return home
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		home, err := ResolveHome()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
