package dbstore

import (
	"fmt"

	"gorm.io/gorm"
)

// SchemaVersion is the recency schema version this package writes.
// It is kept in PRAGMA user_version.
const SchemaVersion = 1

// migration upgrades the schema from version-1 to version.
type migration struct {
	version int
	up      func(tx *gorm.DB) error
}

var migrations = []migration{
	{version: 1, up: createLastPages},
}

func createLastPages(tx *gorm.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS last_pages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			page INTEGER NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			modified_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_last_pages_modified_at ON last_pages (modified_at)`,
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create last_pages: %w", err)
		}
	}
	return nil
}

func userVersion(db *gorm.DB) (int, error) {
	var version int
	if err := db.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func setUserVersion(tx *gorm.DB, version int) error {
	// PRAGMA does not accept bound parameters.
	if err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)).Error; err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}
	return nil
}

// upgrade applies every migration above from, up to target.
func upgrade(tx *gorm.DB, from, target int) error {
	for _, m := range migrations {
		if m.version <= from || m.version > target {
			continue
		}
		if err := m.up(tx); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
	}
	return setUserVersion(tx, target)
}
