// Package memstore provides an in-memory implementation of the store interfaces.
// This implementation is designed for fast unit testing and does not persist data.
package memstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/yiblet/recent/internal/store"
)

// MemoryStore is an in-memory implementation of store.Store.
// It uses maps for storage and is thread-safe via mutexes.
// Data is not persisted and exists only for the lifetime of the process.
type MemoryStore struct {
	recent *memoryRecencyStore
	config *memoryConfigStore
}

// NewMemoryStore creates a new in-memory store for testing.
func NewMemoryStore() *MemoryStore {
	st, _ := NewMemoryStoreWithOptions(store.Options{})
	return st
}

// NewMemoryStoreWithOptions creates an in-memory store and migrates
// opts.Legacy into it, if set.
func NewMemoryStoreWithOptions(opts store.Options) (*MemoryStore, error) {
	opts = opts.WithDefaults()

	st := &MemoryStore{
		recent: newMemoryRecencyStore(opts),
		config: newMemoryConfigStore(),
	}
	if err := st.recent.bootstrap(opts.Legacy); err != nil {
		return nil, err
	}
	return st, nil
}

// Recent returns the recency store.
func (m *MemoryStore) Recent() store.RecencyStore {
	return m.recent
}

// Config returns the config store.
func (m *MemoryStore) Config() store.ConfigStore {
	return m.config
}

// Close releases resources (no-op for memory store).
func (m *MemoryStore) Close() error {
	return nil
}

// memoryRecencyStore implements store.RecencyStore over a map keyed by item.
type memoryRecencyStore struct {
	mu       sync.Mutex
	records  map[int]*store.Record
	nextID   uint
	limit    int
	migrated bool
	clock    clockwork.Clock
	logger   *slog.Logger
}

// newMemoryRecencyStore creates an empty in-memory recency store.
func newMemoryRecencyStore(opts store.Options) *memoryRecencyStore {
	return &memoryRecencyStore{
		records: make(map[int]*store.Record),
		nextID:  1,
		limit:   opts.Limit(),
		clock:   opts.Clock,
		logger:  opts.Logger,
	}
}

// bootstrap migrates the legacy item once per store.
func (m *memoryRecencyStore) bootstrap(legacy store.LegacySource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.migrated || legacy == nil {
		m.migrated = true
		return nil
	}

	item, ok, err := legacy.LegacyItem()
	if err != nil {
		return store.Wrap("bootstrap", store.ErrSchema, fmt.Errorf("failed to read legacy item: %w", err))
	}
	m.migrated = true
	if !ok {
		return nil
	}

	if _, exists := m.records[item]; !exists {
		m.insert(item)
	}
	if err := legacy.ClearLegacyItem(); err != nil {
		m.logger.Warn("failed to remove migrated legacy item", "item", item, "error", err)
	}
	return nil
}

// insert stores a fresh record for item. Caller must hold mu.
func (m *memoryRecencyStore) insert(item int) *store.Record {
	now := m.clock.Now().UTC()
	record := &store.Record{
		ID:         m.nextID,
		Item:       item,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	m.nextID++
	m.records[item] = record
	return record
}

// sorted returns the records newest first. Caller must hold mu.
func (m *memoryRecencyStore) sorted() []*store.Record {
	records := make([]*store.Record, 0, len(m.records))
	for _, r := range m.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].ModifiedAt.Equal(records[j].ModifiedAt) {
			return records[i].ModifiedAt.After(records[j].ModifiedAt)
		}
		return records[i].ID > records[j].ID
	})
	return records
}

// prune drops everything ranked below the limit. Caller must hold mu.
func (m *memoryRecencyStore) prune() {
	records := m.sorted()
	if len(records) <= m.limit {
		return
	}
	for _, r := range records[m.limit:] {
		delete(m.records, r.Item)
	}
}

// RetrieveAll returns copies of all records, newest first.
func (m *memoryRecencyStore) RetrieveAll() ([]*store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.sorted()
	out := make([]*store.Record, len(records))
	for i, r := range records {
		out[i] = clone(r)
	}
	return out, nil
}

// Add replaces any record for item with a fresh one and prunes.
func (m *memoryRecencyStore) Add(item int) (*store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := m.insert(item)
	m.prune()
	return clone(record), nil
}

// Update removes the records for existing.Item and newItem, then inserts newItem.
func (m *memoryRecencyStore) Update(existing *store.Record, newItem int) (*store.Record, error) {
	if existing == nil {
		return nil, errors.New("update: existing record is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, existing.Item)
	delete(m.records, newItem)
	record := m.insert(newItem)
	m.prune()
	return clone(record), nil
}

// Get returns a copy of the record for item.
func (m *memoryRecencyStore) Get(item int) (*store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[item]
	if !ok {
		return nil, &store.Error{Op: "get", Kind: store.ErrNotFound, Err: fmt.Errorf("item %d", item)}
	}
	return clone(record), nil
}

// Count returns the number of records.
func (m *memoryRecencyStore) Count() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records), nil
}

// Clear removes all records. IDs keep increasing afterwards.
func (m *memoryRecencyStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[int]*store.Record)
	return nil
}

// Close releases resources (no-op for memory store).
func (m *memoryRecencyStore) Close() error {
	return nil
}

func clone(r *store.Record) *store.Record {
	c := *r
	return &c
}

// memoryConfigStore implements store.ConfigStore using an in-memory map.
type memoryConfigStore struct {
	mu     sync.RWMutex
	config map[string]string
}

// newMemoryConfigStore creates a new in-memory config store.
func newMemoryConfigStore() *memoryConfigStore {
	return &memoryConfigStore{
		config: make(map[string]string),
	}
}

// Get retrieves a configuration value by key.
func (m *memoryConfigStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.config[key]
	if !exists {
		return "", fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
	}

	return value, nil
}

// Set stores a configuration value.
func (m *memoryConfigStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config[key] = value
	return nil
}

// List returns a copy of all configuration key-value pairs.
func (m *memoryConfigStore) List() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return copy to prevent external modification
	result := make(map[string]string, len(m.config))
	for k, v := range m.config {
		result[k] = v
	}

	return result, nil
}

// Delete removes a configuration key.
func (m *memoryConfigStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.config[key]; !exists {
		return fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
	}

	delete(m.config, key)
	return nil
}

// Close releases resources (no-op for memory store).
func (m *memoryConfigStore) Close() error {
	return nil
}

// Compile-time interface checks.
var (
	_ store.Store        = (*MemoryStore)(nil)
	_ store.RecencyStore = (*memoryRecencyStore)(nil)
	_ store.ConfigStore  = (*memoryConfigStore)(nil)
)
