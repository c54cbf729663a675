// Package settings provides typed access to the key/value config table.
//
// A Key binds a setting name to a Go type and a default value at compile
// time. Values are stored as YAML scalars so they stay readable through
// `recent settings get`.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yiblet/recent/internal/store"
	"gopkg.in/yaml.v3"
)

// Key names a setting of type T.
type Key[T any] struct {
	Name    string
	Default T
}

// NewKey creates a key for name that reads as def while unset.
func NewKey[T any](name string, def T) Key[T] {
	return Key[T]{Name: name, Default: def}
}

var (
	// LastViewedPage is the single-value history used before the recency
	// store existed. It is migrated into the store once and then removed.
	LastViewedPage = NewKey[*int]("LastViewedPage", nil)

	// LastSelectedQariID remembers the reciter chosen in the audio picker.
	LastSelectedQariID = NewKey("LastSelectedQariId", -1)
)

// Settings reads and writes typed values through a store.ConfigStore.
type Settings struct {
	backend store.ConfigStore
}

// New wraps backend. The caller keeps ownership of backend.
func New(backend store.ConfigStore) *Settings {
	return &Settings{backend: backend}
}

// Get returns the value stored under key, or key.Default if it is unset.
func Get[T any](s *Settings, key Key[T]) (T, error) {
	raw, err := s.backend.Get(key.Name)
	if errors.Is(err, store.ErrNotFound) {
		return key.Default, nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get setting %s: %w", key.Name, err)
	}

	var value T
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode setting %s: %w", key.Name, err)
	}
	return value, nil
}

// Set stores value under key. A nil value removes the key.
func Set[T any](s *Settings, key Key[T], value T) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key.Name, err)
	}

	encoded := strings.TrimSpace(string(data))
	if encoded == "null" {
		return Remove(s, key)
	}

	if err := s.backend.Set(key.Name, encoded); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key.Name, err)
	}
	return nil
}

// Remove deletes key. Removing an unset key is not an error.
func Remove[T any](s *Settings, key Key[T]) error {
	if err := s.backend.Delete(key.Name); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to remove setting %s: %w", key.Name, err)
	}
	return nil
}

// Raw returns the stored text for name without decoding it.
func (s *Settings) Raw(name string) (string, error) {
	return s.backend.Get(name)
}

// List returns every stored setting as raw text.
func (s *Settings) List() (map[string]string, error) {
	return s.backend.List()
}

// LegacyPage adapts the LastViewedPage key for migration into a recency store.
func LegacyPage(s *Settings) store.LegacySource {
	return legacyPage{settings: s}
}

type legacyPage struct {
	settings *Settings
}

func (l legacyPage) LegacyItem() (int, bool, error) {
	page, err := Get(l.settings, LastViewedPage)
	if err != nil {
		return 0, false, err
	}
	if page == nil {
		return 0, false, nil
	}
	return *page, true, nil
}

func (l legacyPage) ClearLegacyItem() error {
	return Remove(l.settings, LastViewedPage)
}
