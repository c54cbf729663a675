package store

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to classify a failure returned by a store.
var (
	// ErrSchema means table creation or migration failed. The store is
	// unusable until the cause is resolved.
	ErrSchema = errors.New("schema error")

	// ErrConstraint means an insert violated the item uniqueness
	// invariant. Seeing it indicates a sequencing bug in the store.
	ErrConstraint = errors.New("constraint violation")

	// ErrStorage covers I/O failures, locked or corrupt files.
	ErrStorage = errors.New("storage error")

	// ErrNotFound means the requested record or key does not exist.
	ErrNotFound = errors.New("not found")
)

// Error is a store failure tagged with the operation that raised it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap returns the kind and the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap tags err with op and kind. It returns nil when err is nil and
// leaves errors that already carry a kind untouched.
func Wrap(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
