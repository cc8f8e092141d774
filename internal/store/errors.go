// Package store provides durable key-value persistence for tagged entity
// records on top of an embedded BadgerDB instance. It holds no business
// logic: callers hand it encoded records and get encoded records back.
package store

import "errors"

// Sentinel errors for record store operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStorage indicates the underlying database failed. When a write
	// returns ErrStorage the prior record is intact and the new value is
	// not durable; callers must not report the operation as applied.
	ErrStorage = errors.New("storage failure")
)

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
