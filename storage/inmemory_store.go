package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var ErrClosed = errors.New("Store is closed")

type InmemoryStore struct {
	mu     sync.RWMutex
	values []byte

	// stop will be closed when Close() is called
	stop     chan struct{}
	stopOnce sync.Once
}

func NewInmemoryStore() *InmemoryStore {
	return &InmemoryStore{
		values: []byte("{}"),
		stop:   make(chan struct{}),
	}
}

func (i *InmemoryStore) Close() error {
	i.stopOnce.Do(func() { close(i.stop) })
	return nil
}

func (i *InmemoryStore) Set(ctx context.Context, key []byte, value interface{}) error {
	if !i.isRunning() {
		return ErrClosed
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	values, err := sjson.SetBytes(i.values, string(key), value)
	if err != nil {
		return err
	}

	i.values = values
	return nil
}

// Get returns the raw JSON stored at key. The returned slice is a copy and
// may be retained by the caller.
func (i *InmemoryStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	result := gjson.GetBytes(i.values, string(key))
	if !result.Exists() {
		return nil, ErrNotFound
	}

	return []byte(result.Raw), nil
}

func (i *InmemoryStore) Restore(values []byte) error {
	if len(values) == 0 {
		values = []byte("{}")
	}

	if !gjson.ValidBytes(values) {
		return errors.New("Restore requires a valid JSON document")
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.values = append([]byte(nil), values...)
	return nil
}

func (i *InmemoryStore) Backup() ([]byte, error) {
	if !i.isRunning() {
		return nil, ErrClosed
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	return append([]byte(nil), i.values...), nil
}

// isRunning returns true if Close has not been called
func (i *InmemoryStore) isRunning() bool {
	select {
	case <-i.stop:
		return false

	default:
		return true
	}
}

var _ Store = (*InmemoryStore)(nil)
