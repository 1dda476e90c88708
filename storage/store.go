package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("Key not found")

// Store holds the latest known readings as a single JSON document. Keys are
// gjson/sjson paths.
type Store interface {
	Set(ctx context.Context, key []byte, value interface{}) error
	Get(ctx context.Context, key []byte) ([]byte, error)

	Restore(values []byte) error
	Backup() ([]byte, error)

	Close() error
}
