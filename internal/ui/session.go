// Package ui translates user actions into store commands and keeps the view
// state (search query and status filter) between them.
package ui

import (
	"context"
	"io"

	"todo/internal/filter"
	"todo/internal/render"
	"todo/internal/store"
	"todo/internal/task"
)

// Session is the mutation surface exposed to the view.
type Session struct {
	store    *store.Store
	criteria filter.Criteria

	// Confirm is asked before every delete.
	Confirm Confirmer
}

// NewSession creates a session over st. A nil confirm declines every delete.
func NewSession(st *store.Store, confirm Confirmer) *Session {
	if confirm == nil {
		confirm = Decline
	}
	return &Session{store: st, Confirm: confirm}
}

// Store returns the underlying store.
func (s *Session) Store() *store.Store { return s.store }

// AddTask creates a task.
func (s *Session) AddTask(ctx context.Context, text string, due task.Date, priority task.Priority) (task.Task, error) {
	return s.store.Create(ctx, text, due, priority)
}

// ToggleTaskStatus flips the completion state of the task with id.
func (s *Session) ToggleTaskStatus(ctx context.Context, id task.ID) (task.Task, error) {
	return s.store.Toggle(ctx, id)
}

// DeleteTask asks for confirmation and then deletes the task with id.
// Returns false without touching the store if the user declines.
func (s *Session) DeleteTask(ctx context.Context, id task.ID) (bool, error) {
	t, ok := s.store.Get(id)
	if !ok {
		return false, store.ErrNotFound
	}
	yes, err := s.Confirm.Confirm("Delete task \"" + t.Text + "\"?")
	if err != nil || !yes {
		return false, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// EditTask replaces the text of the task with id.
func (s *Session) EditTask(ctx context.Context, id task.ID, text string) error {
	return s.store.Edit(ctx, id, text)
}

// SetSearchQuery sets the free-text filter.
func (s *Session) SetSearchQuery(q string) { s.criteria.Query = q }

// SetStatusFilter sets the status filter.
func (s *Session) SetStatusFilter(st filter.Status) { s.criteria.Status = st }

// Criteria returns the current filter criteria.
func (s *Session) Criteria() filter.Criteria { return s.criteria }

// Visible returns the rows matching the current criteria.
func (s *Session) Visible() []filter.Indexed {
	return filter.ApplyIndexed(s.store.Tasks(), s.criteria)
}

// Render redraws the visible rows and returns how many were written.
func (s *Session) Render(w io.Writer, opts render.Options) int {
	rows := s.Visible()
	render.Render(w, rows, opts)
	return len(rows)
}
