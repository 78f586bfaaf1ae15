// Package storage reads the persisted backup collection from the places a
// browser keeps its local storage.
package storage

import (
	"context"
	"errors"
)

// ErrMalformed indicates the stored value is not a JSON array of records.
var ErrMalformed = errors.New("malformed stored collection")

// ErrUnavailable indicates the backing store could not be read.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a read-only key/value view of browser local storage.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent, which is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}
