// Package store defines the storage interfaces for recent's persistence layer.
// It provides abstractions for the bounded recency history and the
// key/value settings table that share one database.
package store

// DefaultMaxRecords is the number of records a recency store retains
// when no limit is configured.
const DefaultMaxRecords = 3

// RecencyStore is a durable, deduplicated, size-bounded list of tracked
// items ordered by last modification (newest first).
//
// Implementations serialize every call through a single lock, so callers
// may share one instance across goroutines. All operations block until
// they complete or fail; none are retried.
type RecencyStore interface {
	// RetrieveAll returns every record ordered by ModifiedAt descending.
	// Records with equal timestamps are ordered by ID descending.
	RetrieveAll() ([]*Record, error)

	// Add inserts or replaces the record for item with fresh timestamps,
	// then prunes the store down to its maximum size. Insert and prune
	// are applied atomically.
	Add(item int) (*Record, error)

	// Update re-targets existing to newItem. Records for both the old and
	// the new item are removed before a fresh record for newItem is
	// inserted, so the count never grows.
	Update(existing *Record, newItem int) (*Record, error)

	// Get returns the record for item, or an error wrapping ErrNotFound.
	Get(item int) (*Record, error)

	// Count returns the number of stored records.
	Count() (int, error)

	// Clear removes all records.
	Clear() error

	// Close releases any resources.
	Close() error
}

// ConfigStore manages configuration persistence.
// Configuration is stored as key-value pairs.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns an error wrapping ErrNotFound if the key does not exist.
	Get(key string) (string, error)

	// Set stores a configuration value.
	// If the key already exists, its value is updated.
	Set(key, value string) error

	// List returns all configuration key-value pairs.
	List() (map[string]string, error)

	// Delete removes a configuration key.
	// Returns an error wrapping ErrNotFound if the key does not exist.
	Delete(key string) error

	// Close releases any resources.
	Close() error
}

// LegacySource exposes the single "last viewed item" value that was kept
// in the settings table before the recency store existed.
type LegacySource interface {
	// LegacyItem reports the stored value, if any.
	LegacyItem() (item int, ok bool, err error)

	// ClearLegacyItem removes the value once it has been migrated.
	ClearLegacyItem() error
}

// Store combines the recency and config stores.
// Implementations provide access to both and manage their lifecycle
// as a single unit.
type Store interface {
	// Recent returns the recency store.
	Recent() RecencyStore

	// Config returns the config store for managing settings.
	Config() ConfigStore

	// Close releases all resources for both stores.
	Close() error
}
