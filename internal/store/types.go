package store

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Record is one tracked item in a RecencyStore.
type Record struct {
	// ID is a surrogate key assigned on insertion. It grows monotonically
	// and breaks ties between records with equal ModifiedAt.
	ID uint

	// Item is the tracked value (a page number). Unique within a store.
	Item int

	// CreatedAt is when this record was inserted.
	CreatedAt time.Time

	// ModifiedAt is when the item was last touched.
	ModifiedAt time.Time
}

// Options configures a RecencyStore implementation.
type Options struct {
	// MaxRecords bounds the number of retained records.
	// Zero or negative means DefaultMaxRecords.
	MaxRecords int

	// Legacy, when set, is migrated into the store on first bootstrap.
	Legacy LegacySource

	// Clock stamps records. Nil means the wall clock.
	Clock clockwork.Clock

	// Logger receives non-fatal bootstrap warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Limit returns the effective record bound.
func (o Options) Limit() int {
	if o.MaxRecords <= 0 {
		return DefaultMaxRecords
	}
	return o.MaxRecords
}

// WithDefaults returns a copy of o with nil collaborators filled in.
func (o Options) WithDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
