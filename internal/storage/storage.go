// Package storage defines the key-value slot interface the task store
// persists through.
package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	// TasksKey is the slot holding the whole task collection.
	TasksKey = "tasks"

	// DarkModeKey is the slot holding the dark-mode preference.
	DarkModeKey = "darkMode"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a durable key-value store. Each value is overwritten wholesale by Put.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Opener constructs a backend rooted at dir.
type Opener func(dir string) (KV, error)

var openers = map[string]Opener{}

// RegisterBackend makes a backend available to Open.
// Backend packages call it from init.
func RegisterBackend(name string, open Opener) {
	if _, exists := openers[name]; exists {
		panic(fmt.Sprintf("storage backend already registered: %s", name))
	}
	openers[name] = open
}

// Open opens the named backend rooted at dir.
func Open(name, dir string) (KV, error) {
	open, ok := openers[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage backend: %s", name)
	}
	return open(dir)
}

// Unavailable returns a KV whose reads and writes all fail with err.
// It stands in for a backend that could not be opened.
func Unavailable(err error) KV {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) Get(context.Context, string) ([]byte, error) { return nil, u.err }
func (u unavailable) Put(context.Context, string, []byte) error   { return u.err }
func (u unavailable) Close() error                                { return nil }
