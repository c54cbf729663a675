package settings_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yiblet/recent/internal/settings"
	"github.com/yiblet/recent/internal/store"
	"github.com/yiblet/recent/internal/store/memstore"
)

func newSettings(t *testing.T) (*settings.Settings, store.ConfigStore) {
	t.Helper()

	backend := memstore.NewMemoryStore().Config()
	return settings.New(backend), backend
}

func TestGet_ReturnsDefaultWhenUnset(t *testing.T) {
	s, _ := newSettings(t)

	qari, err := settings.Get(s, settings.LastSelectedQariID)
	require.NoError(t, err)
	assert.Equal(t, -1, qari)

	page, err := settings.Get(s, settings.LastViewedPage)
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestSetAndGet(t *testing.T) {
	s, backend := newSettings(t)

	require.NoError(t, settings.Set(s, settings.LastSelectedQariID, 7))

	qari, err := settings.Get(s, settings.LastSelectedQariID)
	require.NoError(t, err)
	assert.Equal(t, 7, qari)

	raw, err := backend.Get("LastSelectedQariId")
	require.NoError(t, err)
	assert.Equal(t, "7", raw)
}

func TestSetPointer(t *testing.T) {
	s, _ := newSettings(t)
	page := 604

	require.NoError(t, settings.Set(s, settings.LastViewedPage, &page))

	got, err := settings.Get(s, settings.LastViewedPage)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 604, *got)
}

func TestSetNilRemoves(t *testing.T) {
	s, backend := newSettings(t)
	page := 3

	require.NoError(t, settings.Set(s, settings.LastViewedPage, &page))
	require.NoError(t, settings.Set(s, settings.LastViewedPage, nil))

	_, err := backend.Get("LastViewedPage")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemoveMissingKey(t *testing.T) {
	s, _ := newSettings(t)

	assert.NoError(t, settings.Remove(s, settings.LastViewedPage))
}

func TestStructuredValues(t *testing.T) {
	type reader struct {
		Font  string  `yaml:"font"`
		Scale float64 `yaml:"scale"`
	}
	key := settings.NewKey("Reader", reader{Font: "uthmani", Scale: 1})
	s, _ := newSettings(t)

	got, err := settings.Get(s, key)
	require.NoError(t, err)
	assert.Equal(t, reader{Font: "uthmani", Scale: 1}, got)

	require.NoError(t, settings.Set(s, key, reader{Font: "indopak", Scale: 1.5}))
	got, err = settings.Get(s, key)
	require.NoError(t, err)
	assert.Equal(t, reader{Font: "indopak", Scale: 1.5}, got)
}

func TestGet_DecodeError(t *testing.T) {
	s, backend := newSettings(t)
	require.NoError(t, backend.Set("LastSelectedQariId", "not a number"))

	_, err := settings.Get(s, settings.LastSelectedQariID)
	assert.Error(t, err)
}

type failingBackend struct {
	store.ConfigStore
}

func (failingBackend) Get(key string) (string, error) { return "", errors.New("disk I/O error") }
func (failingBackend) Delete(key string) error { return errors.New("disk I/O error") }

func TestBackendErrorsPropagate(t *testing.T) {
	s := settings.New(failingBackend{})

	_, err := settings.Get(s, settings.LastSelectedQariID)
	assert.Error(t, err)
	assert.Error(t, settings.Remove(s, settings.LastViewedPage))
}

func TestLegacyPage(t *testing.T) {
	s, _ := newSettings(t)
	legacy := settings.LegacyPage(s)

	_, ok, err := legacy.LegacyItem()
	require.NoError(t, err)
	assert.False(t, ok)

	page := 256
	require.NoError(t, settings.Set(s, settings.LastViewedPage, &page))

	item, ok, err := legacy.LegacyItem()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 256, item)

	require.NoError(t, legacy.ClearLegacyItem())
	_, ok, err = legacy.LegacyItem()
	require.NoError(t, err)
	assert.False(t, ok)
}
