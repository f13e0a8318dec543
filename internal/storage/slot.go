// Package storage persists the ledger to a durable local key-value slot.
//
// A Slot is the raw key-value medium (a file per key, or a row in SQLite).
// The Adapter owns the wire format on top of it: a JSON array of
// transactions under one fixed key, validated record by record on load.
package storage

import "errors"

// DefaultKey is the slot key the ledger is stored under.
const DefaultKey = "budget-transactions"

// ErrWatchUnsupported is returned by backends that cannot report changes.
var ErrWatchUnsupported = errors.New("storage backend does not support change notifications")

// Slot is a durable local key-value store.
type Slot interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(key string, value []byte) error
	Close() error
}

// Notifier is implemented by slots that can report writes made by other processes.
type Notifier interface {
	Watch(key string) (*Watcher, error)
}

// Watch starts a Watcher on slot if the backend supports it.
func Watch(slot Slot, key string) (*Watcher, error) {
	n, ok := slot.(Notifier)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return n.Watch(key)
}
