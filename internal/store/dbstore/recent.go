package dbstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/yiblet/recent/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pruneStatement keeps the newest rows only. id breaks ties between rows
// touched at the same instant so eviction order is stable.
const pruneStatement = `DELETE FROM last_pages WHERE id NOT IN (
	SELECT id FROM last_pages ORDER BY modified_at DESC, id DESC LIMIT ?
)`

// sqliteRecencyStore implements store.RecencyStore on the last_pages table.
// mu is the single access point: every operation holds it end to end.
type sqliteRecencyStore struct {
	mu     sync.Mutex
	db     *gorm.DB
	limit  int
	clock  clockwork.Clock
	logger *slog.Logger
}

func newRecencyStore(db *gorm.DB, opts store.Options) *sqliteRecencyStore {
	return &sqliteRecencyStore{
		db:     db,
		limit:  opts.Limit(),
		clock:  opts.Clock,
		logger: opts.Logger,
	}
}

func (s *sqliteRecencyStore) now() time.Time {
	return s.clock.Now().UTC()
}

// bootstrap creates the schema and migrates the legacy item. It runs
// once per store, before the store is handed to callers.
func (s *sqliteRecencyStore) bootstrap(legacy store.LegacySource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := userVersion(s.db)
	if err != nil {
		return store.Wrap("bootstrap", store.ErrSchema, err)
	}
	if current >= SchemaVersion {
		return nil
	}

	// Read outside the transaction: the legacy value lives in another table
	// and may be served by another connection.
	var (
		legacyItem int
		hasLegacy  bool
	)
	if legacy != nil {
		legacyItem, hasLegacy, err = legacy.LegacyItem()
		if err != nil {
			return store.Wrap("bootstrap", store.ErrSchema, fmt.Errorf("failed to read legacy item: %w", err))
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Another process may have finished bootstrap while we waited for the lock.
		version, err := userVersion(tx)
		if err != nil {
			return err
		}
		if version >= SchemaVersion {
			return nil
		}

		if err := upgrade(tx, version, SchemaVersion); err != nil {
			return err
		}

		if !hasLegacy {
			return nil
		}
		return s.migrateLegacy(tx, legacyItem)
	})
	if err != nil {
		return store.Wrap("bootstrap", store.ErrSchema, err)
	}

	if hasLegacy {
		if err := legacy.ClearLegacyItem(); err != nil {
			s.logger.Warn("failed to remove migrated legacy item", "item", legacyItem, "error", err)
		}
	}
	return nil
}

// migrateLegacy inserts item unless a record for it already exists.
func (s *sqliteRecencyStore) migrateLegacy(tx *gorm.DB, item int) error {
	var existing int64
	if err := tx.Model(&LastPageModel{}).Where("page = ?", item).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check legacy item: %w", err)
	}
	if existing > 0 {
		return nil
	}

	now := s.now()
	model := &LastPageModel{Page: item, CreatedAt: now, ModifiedAt: now}
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to migrate legacy item %d: %w", item, err)
	}
	s.logger.Info("migrated legacy item", "item", item)
	return nil
}

// RetrieveAll returns records newest first
func (s *sqliteRecencyStore) RetrieveAll() ([]*store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var models []*LastPageModel
	if err := s.db.Order("modified_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, classify("retrieve all", err)
	}

	records := make([]*store.Record, len(models))
	for i, model := range models {
		records[i] = model.ToRecord()
	}
	return records, nil
}

// Add upserts item and prunes the table in one transaction
func (s *sqliteRecencyStore) Add(item int) (*store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	model := &LastPageModel{Page: item, CreatedAt: now, ModifiedAt: now}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// OR REPLACE drops the old row, so a re-added item gets a new id.
		if err := tx.Clauses(clause.Insert{Modifier: "OR REPLACE"}).Create(model).Error; err != nil {
			return err
		}
		return tx.Exec(pruneStatement, s.limit).Error
	})
	if err != nil {
		return nil, classify("add", err)
	}

	return model.ToRecord(), nil
}

// Update replaces the records for existing.Item and newItem with a fresh one
func (s *sqliteRecencyStore) Update(existing *store.Record, newItem int) (*store.Record, error) {
	if existing == nil {
		return nil, errors.New("update: existing record is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	model := &LastPageModel{Page: newItem, CreatedAt: now, ModifiedAt: now}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		conflicts := []int{existing.Item, newItem}
		if err := tx.Where("page IN ?", conflicts).Delete(&LastPageModel{}).Error; err != nil {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		// No-op unless existing had already been evicted.
		return tx.Exec(pruneStatement, s.limit).Error
	})
	if err != nil {
		return nil, classify("update", err)
	}

	return model.ToRecord(), nil
}

// Get retrieves the record for item
func (s *sqliteRecencyStore) Get(item int) (*store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var model LastPageModel
	if err := s.db.Where("page = ?", item).First(&model).Error; err != nil {
		return nil, classify("get", err)
	}
	return model.ToRecord(), nil
}

// Count returns the total number of records
func (s *sqliteRecencyStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.Model(&LastPageModel{}).Count(&count).Error; err != nil {
		return 0, classify("count", err)
	}
	return int(count), nil
}

// Clear removes all records
func (s *sqliteRecencyStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&LastPageModel{}).Error; err != nil {
		return classify("clear", err)
	}
	return nil
}

// Close releases any resources
func (s *sqliteRecencyStore) Close() error {
	return nil // No-op, parent store handles DB closing
}

// classify maps gorm and driver errors onto the store error kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.Wrap(op, store.ErrConstraint, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.Wrap(op, store.ErrNotFound, err)
	default:
		return store.Wrap(op, store.ErrStorage, err)
	}
}
