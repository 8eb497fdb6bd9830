package store

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText indicates task text that trims to nothing.
	ErrEmptyText = errors.New("task text required")

	// ErrNotFound indicates an id that is not in the store.
	ErrNotFound = errors.New("task not found")
)

// ImportError reports a malformed import document. The store is unchanged
// when one is returned.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("invalid import document: %v", e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// PersistenceError reports that the storage backend could not be read or
// written. After one occurs the store keeps working in memory only.
type PersistenceError struct {
	// Op is "load" or "save".
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
