// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/storage"
)

// FakeKV is an in-memory implementation of storage.KV for testing.
type FakeKV struct {
	mu     sync.RWMutex
	values map[string][]byte

	// Puts counts successful Put calls per key.
	Puts map[string]int

	// Error injection for testing
	GetErr   error
	PutErr   error
	CloseErr error
	Closed   bool
}

// NewFakeKV creates an empty FakeKV.
func NewFakeKV() *FakeKV {
	return &FakeKV{
		values: make(map[string][]byte),
		Puts:   make(map[string]int),
	}
}

// Set stores a raw value without counting it as a Put.
func (f *FakeKV) Set(key string, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = []byte(value)
}

// Value returns the raw value stored under key.
func (f *FakeKV) Value(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return string(v), ok
}

// Get implements storage.KV.
func (f *FakeKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put implements storage.KV.
func (f *FakeKV) Put(ctx context.Context, key string, value []byte) error {
	if f.PutErr != nil {
		return f.PutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	f.values[key] = v
	f.Puts[key]++
	return nil
}

// Close implements storage.KV.
func (f *FakeKV) Close() error {
	f.Closed = true
	return f.CloseErr
}
