// Package history implements reading-position bookkeeping on top of a
// store.RecencyStore.
package history

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yiblet/recent/internal/store"
)

var (
	// ErrInvalidItem is returned for items that are not positive.
	ErrInvalidItem = errors.New("item must be a positive number")

	// ErrIndexOutOfRange is returned when an index does not name a record.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Manager exposes the recency store by position (0 = most recent).
type Manager struct {
	store  store.RecencyStore
	logger *slog.Logger
}

// NewManager creates a manager over rs. A nil logger means slog.Default().
func NewManager(rs store.RecencyStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: rs, logger: logger}
}

// Visit records that item was opened. It becomes the most recent record.
func (m *Manager) Visit(item int) (*store.Record, error) {
	if item <= 0 {
		return nil, fmt.Errorf("visit %d: %w", item, ErrInvalidItem)
	}

	record, err := m.store.Add(item)
	if err != nil {
		return nil, fmt.Errorf("failed to add item %d: %w", item, err)
	}

	m.logger.Debug("visited", "item", item, "id", record.ID)
	return record, nil
}

// Move re-targets the record at index to item, as when a reader keeps
// paging from a position they reopened.
func (m *Manager) Move(index, item int) (*store.Record, error) {
	if item <= 0 {
		return nil, fmt.Errorf("move to %d: %w", item, ErrInvalidItem)
	}

	existing, err := m.Get(index)
	if err != nil {
		return nil, err
	}

	record, err := m.store.Update(existing, item)
	if err != nil {
		return nil, fmt.Errorf("failed to move item %d to %d: %w", existing.Item, item, err)
	}

	m.logger.Debug("moved", "from", existing.Item, "to", item)
	return record, nil
}

// List returns all records, newest first.
func (m *Manager) List() ([]*store.Record, error) {
	return m.store.RetrieveAll()
}

// Get returns the record at index (0 = newest).
func (m *Manager) Get(index int) (*store.Record, error) {
	records, err := m.List()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(records) {
		return nil, fmt.Errorf("index %d (have %d records): %w", index, len(records), ErrIndexOutOfRange)
	}

	return records[index], nil
}

// Latest returns the most recent record. ok is false when history is empty.
func (m *Manager) Latest() (record *store.Record, ok bool, err error) {
	records, err := m.List()
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

// Clear removes all records.
func (m *Manager) Clear() error {
	return m.store.Clear()
}

// Size returns the number of records.
func (m *Manager) Size() (int, error) {
	return m.store.Count()
}

// Close releases store resources.
func (m *Manager) Close() error {
	return m.store.Close()
}
