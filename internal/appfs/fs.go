// Package appfs resolves where recent keeps its files on disk.
package appfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	ConfigDir  = ".config/recent"
	LegacyDir  = ".recent" // Location used before the XDG layout
	DBFile     = "last_pages.db"
	ConfigFile = "config.yaml"
)

// sqliteSidecars are moved together with the database file.
var sqliteSidecars = []string{"-journal", "-wal", "-shm"}

// AppFS describes the application directory and the database inside it.
type AppFS struct {
	root   string
	dbPath string
}

// New resolves the default layout rooted at ~/.config/recent/.
func New() (*AppFS, error) {
	return NewWithDBPath("")
}

// NewWithDBPath resolves the layout with a custom database location.
// If dbPath is empty, uses ~/.config/recent/last_pages.db and moves a
// database left in the legacy ~/.recent/ directory into place.
// If dbPath is absolute, it is used as is.
// If dbPath is relative, it is resolved under ~/.config/recent/.
func NewWithDBPath(dbPath string) (*AppFS, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	root := filepath.Join(homeDir, ConfigDir)

	var resolved string
	switch {
	case dbPath == "":
		resolved = filepath.Join(root, DBFile)
	case filepath.IsAbs(dbPath):
		resolved = dbPath
	default:
		resolved = filepath.Join(root, dbPath)
	}

	for _, dir := range []string{root, filepath.Dir(resolved)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	afs := &AppFS{root: root, dbPath: resolved}

	// Only the default location has a legacy predecessor.
	if dbPath == "" {
		legacyPath := filepath.Join(homeDir, LegacyDir, DBFile)
		if err := afs.migrateFromLegacyLocation(legacyPath); err != nil {
			return nil, err
		}
	}

	return afs, nil
}

// NewWithRoot creates an AppFS with a custom root (for testing)
func NewWithRoot(root string) *AppFS {
	return &AppFS{root: root, dbPath: filepath.Join(root, DBFile)}
}

// Root returns the application directory
func (a *AppFS) Root() string {
	return a.root
}

// DBPath returns the database file path
func (a *AppFS) DBPath() string {
	return a.dbPath
}

// ConfigPath returns the yaml config file path
func (a *AppFS) ConfigPath() string {
	return filepath.Join(a.root, ConfigFile)
}

// migrateFromLegacyLocation moves a database from the legacy directory to
// the current location. An existing database at the new location wins.
func (a *AppFS) migrateFromLegacyLocation(legacyPath string) error {
	if _, err := os.Stat(legacyPath); os.IsNotExist(err) {
		return nil
	}

	if _, err := os.Stat(a.dbPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check database %s: %w", a.dbPath, err)
	}

	if err := moveFile(legacyPath, a.dbPath); err != nil {
		return fmt.Errorf("failed to migrate legacy database: %w", err)
	}

	for _, suffix := range sqliteSidecars {
		src := legacyPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := moveFile(src, a.dbPath+suffix); err != nil {
			return fmt.Errorf("failed to migrate legacy database %s file: %w", suffix, err)
		}
	}

	return nil
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return os.Remove(src)
}
