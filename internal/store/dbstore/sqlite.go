package dbstore

import (
	"errors"
	"fmt"

	"github.com/yiblet/recent/internal/settings"
	"github.com/yiblet/recent/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dsnParams makes every transaction take the write lock up front and
// waits on a locked file instead of failing immediately.
const dsnParams = "?_txlock=immediate&_busy_timeout=5000"

// SQLiteStore is a SQLite-backed implementation of store.Store
type SQLiteStore struct {
	db     *gorm.DB
	dbPath string
	recent *sqliteRecencyStore
}

// NewSQLiteStore creates a new SQLite-backed store at the specified path
// with default options.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithOptions(dbPath, store.Options{})
}

// NewSQLiteStoreWithOptions opens the database at dbPath, creates the
// schema on first use and migrates the legacy last viewed page.
// When opts.Legacy is nil the legacy value is read from this database's
// own config table.
func NewSQLiteStoreWithOptions(dbPath string, opts store.Options) (*SQLiteStore, error) {
	opts = opts.WithDefaults()

	db, err := gorm.Open(sqlite.Open(dbPath+dsnParams), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, store.Wrap("open", store.ErrStorage, fmt.Errorf("failed to open database: %w", err))
	}

	st := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		recent: newRecencyStore(db, opts),
	}

	if err := db.AutoMigrate(&ConfigItemModel{}); err != nil {
		st.Close()
		return nil, store.Wrap("open", store.ErrSchema, fmt.Errorf("failed to migrate config schema: %w", err))
	}

	legacy := opts.Legacy
	if legacy == nil {
		legacy = settings.LegacyPage(settings.New(st.Config()))
	}
	if err := st.recent.bootstrap(legacy); err != nil {
		st.Close()
		return nil, err
	}

	return st, nil
}

// Recent returns the recency store
func (s *SQLiteStore) Recent() store.RecencyStore {
	return s.recent
}

// Config returns the config store
func (s *SQLiteStore) Config() store.ConfigStore {
	return &sqliteConfigStore{db: s.db}
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sqliteConfigStore implements store.ConfigStore using SQLite
type sqliteConfigStore struct {
	db *gorm.DB
}

// Get retrieves a configuration value by key
func (s *sqliteConfigStore) Get(key string) (string, error) {
	var model ConfigItemModel
	if err := s.db.First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
		}
		return "", store.Wrap("config get", store.ErrStorage, err)
	}
	return model.Value, nil
}

// Set stores a configuration value (upsert)
func (s *sqliteConfigStore) Set(key, value string) error {
	model := &ConfigItemModel{
		Key:   key,
		Value: value,
	}

	result := s.db.Where("key = ?", key).
		Assign(map[string]interface{}{"value": value, "updated_at": s.db.NowFunc()}).
		FirstOrCreate(model)

	if result.Error != nil {
		return store.Wrap("config set", store.ErrStorage, result.Error)
	}

	return nil
}

// List returns all configuration key-value pairs
func (s *sqliteConfigStore) List() (map[string]string, error) {
	var models []ConfigItemModel
	if err := s.db.Find(&models).Error; err != nil {
		return nil, store.Wrap("config list", store.ErrStorage, err)
	}

	result := make(map[string]string, len(models))
	for _, model := range models {
		result[model.Key] = model.Value
	}

	return result, nil
}

// Delete removes a configuration key
func (s *sqliteConfigStore) Delete(key string) error {
	result := s.db.Delete(&ConfigItemModel{}, "key = ?", key)
	if result.Error != nil {
		return store.Wrap("config delete", store.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("config key %s: %w", key, store.ErrNotFound)
	}
	return nil
}

// Close releases any resources
func (s *sqliteConfigStore) Close() error {
	return nil // No-op, parent store handles DB closing
}
