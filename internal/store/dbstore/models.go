package dbstore

import (
	"time"

	"github.com/yiblet/recent/internal/store"
)

// LastPageModel represents a recency record in the database.
type LastPageModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Page       int       `gorm:"not null;unique"`
	CreatedAt  time.Time `gorm:"not null"`
	ModifiedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for LastPageModel
func (LastPageModel) TableName() string {
	return "last_pages"
}

// ToRecord converts the GORM model to a store.Record
func (m *LastPageModel) ToRecord() *store.Record {
	return &store.Record{
		ID:         m.ID,
		Item:       m.Page,
		CreatedAt:  m.CreatedAt,
		ModifiedAt: m.ModifiedAt,
	}
}

// ConfigItemModel represents a configuration key-value pair
type ConfigItemModel struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ConfigItemModel
func (ConfigItemModel) TableName() string {
	return "config"
}
