package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"todo/internal/storage"
)

// DarkMode returns the stored dark-mode preference. Missing or unreadable
// values read as false.
func (s *Store) DarkMode(ctx context.Context) bool {
	if s.warning != nil {
		return false
	}
	data, err := s.kv.Get(ctx, storage.DarkModeKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Debug("failed to read dark mode preference", zap.Error(err))
		}
		return false
	}
	var on bool
	if err := json.Unmarshal(data, &on); err != nil {
		return false
	}
	return on
}

// SetDarkMode stores the dark-mode preference. It is a no-op once the store
// has degraded to memory.
func (s *Store) SetDarkMode(ctx context.Context, on bool) {
	if s.warning != nil {
		return
	}
	data, err := json.Marshal(on)
	if err != nil {
		s.log.Debug("failed to encode dark mode preference", zap.Error(err))
		return
	}
	if err := s.kv.Put(ctx, storage.DarkModeKey, data); err != nil {
		s.degrade(&PersistenceError{Op: "save", Err: err})
	}
}
