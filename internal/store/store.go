// Package store owns the task collection and keeps it in sync with a
// storage.KV slot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo/internal/codec"
	"todo/internal/logging"
	"todo/internal/storage"
	"todo/internal/task"
)

// Store is the single authority over the task collection.
// Every mutation writes the whole collection back before returning.
// A Store is not safe for concurrent use.
type Store struct {
	kv    storage.KV
	log   *zap.Logger
	tasks []task.Task

	now   func() time.Time
	newID func() task.ID

	// warning is the first persistence failure; once set the store no
	// longer touches kv.
	warning *PersistenceError

	// discarded is the decode error of the last Load, if the persisted
	// collection was unreadable and dropped.
	discarded error
}

// New creates an empty store backed by kv. Call Load to read persisted tasks.
func New(kv storage.KV, log *zap.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		kv:    kv,
		log:   log,
		now:   time.Now,
		newID: newUUID,
	}
}

func newUUID() task.ID {
	id, err := uuid.NewV7()
	if err != nil {
		return task.ID(uuid.NewString())
	}
	return task.ID(id.String())
}

// Load replaces the in-memory collection with the persisted one.
// It never fails: missing or corrupt data yields an empty collection, and an
// unreadable backend switches the store to in-memory mode.
func (s *Store) Load(ctx context.Context) {
	s.tasks = nil
	s.discarded = nil

	data, err := s.kv.Get(ctx, storage.TasksKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug("no persisted tasks")
		return
	}
	if err != nil {
		s.degrade(&PersistenceError{Op: "load", Err: err})
		return
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.log.Warn("persisted tasks are corrupt; starting empty", zap.Error(err))
		s.discarded = err
		return
	}
	s.tasks = tasks
	s.log.Debug("loaded tasks", zap.Int("count", len(tasks)))
}

// Create appends a new pending task. Text is trimmed; ErrEmptyText is
// returned and nothing changes if it is empty.
func (s *Store) Create(ctx context.Context, text string, due task.Date, priority task.Priority) (task.Task, error) {
	text, ok := task.NormalizeText(text)
	if !ok {
		return task.Task{}, ErrEmptyText
	}

	t := task.Task{
		ID:        s.freshID(),
		Text:      text,
		DueDate:   due,
		Priority:  priority,
		CreatedAt: s.now(),
	}
	s.tasks = append(s.tasks, t)
	s.persist(ctx)

	s.log.Debug("created task", zap.String("id", string(t.ID)))
	return t, nil
}

// SetCompleted sets the completion flag of the task with id.
func (s *Store) SetCompleted(ctx context.Context, id task.ID, completed bool) error {
	i := s.index(id)
	if i < 0 {
		return s.notFound(id)
	}
	s.tasks[i].Completed = completed
	s.persist(ctx)
	return nil
}

// Toggle flips the completion flag and returns the updated task.
func (s *Store) Toggle(ctx context.Context, id task.ID) (task.Task, error) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, s.notFound(id)
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.persist(ctx)
	return s.tasks[i], nil
}

// Edit replaces the text of the task with id.
func (s *Store) Edit(ctx context.Context, id task.ID, text string) error {
	i := s.index(id)
	if i < 0 {
		return s.notFound(id)
	}
	text, ok := task.NormalizeText(text)
	if !ok {
		return ErrEmptyText
	}
	s.tasks[i].Text = text
	s.persist(ctx)
	return nil
}

// Delete removes the task with id.
func (s *Store) Delete(ctx context.Context, id task.ID) error {
	i := s.index(id)
	if i < 0 {
		return s.notFound(id)
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.persist(ctx)
	return nil
}

// ImportResult summarizes an ImportBatch call.
type ImportResult struct {
	Added      int
	Duplicates int
	Invalid    int
}

// ImportBatch appends records to the end of the collection.
//
// Records whose id is already present (in the store or earlier in the batch)
// are skipped as duplicates. Records with empty text are skipped as invalid.
// Records without an id get a fresh one.
func (s *Store) ImportBatch(ctx context.Context, records []task.Task) ImportResult {
	var res ImportResult

	seen := make(map[task.ID]bool, len(s.tasks)+len(records))
	for _, t := range s.tasks {
		seen[t.ID] = true
	}

	added := make([]task.Task, 0, len(records))
	for _, rec := range records {
		text, ok := task.NormalizeText(rec.Text)
		if !ok {
			res.Invalid++
			continue
		}
		rec.Text = text

		if rec.ID == "" {
			rec.ID = s.freshIDExcluding(seen)
		}
		if seen[rec.ID] {
			res.Duplicates++
			s.log.Debug("skipping duplicate task", zap.String("id", string(rec.ID)))
			continue
		}
		seen[rec.ID] = true

		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = s.now()
		}
		added = append(added, rec)
	}

	res.Added = len(added)
	if res.Added > 0 {
		s.tasks = append(s.tasks, added...)
		s.persist(ctx)
	}
	return res
}

// Import decodes an f document from r and passes it to ImportBatch.
// A malformed document returns *ImportError and leaves the store unchanged.
func (s *Store) Import(ctx context.Context, r io.Reader, f codec.Format) (ImportResult, error) {
	records, err := codec.Decode(r, f)
	if err != nil {
		return ImportResult{}, &ImportError{Err: err}
	}
	return s.ImportBatch(ctx, records), nil
}

// Export writes the whole collection to w as an f document.
func (s *Store) Export(w io.Writer, f codec.Format) error {
	return codec.Encode(w, s.ExportSnapshot(), f)
}

// ExportSnapshot returns a copy of the collection.
func (s *Store) ExportSnapshot() []task.Task {
	return task.Clone(s.tasks)
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []task.Task {
	return task.Clone(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id task.ID) (task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// PendingCount returns the number of tasks not yet completed.
func (s *Store) PendingCount() int {
	n := 0
	for _, t := range s.tasks {
		if t.Pending() {
			n++
		}
	}
	return n
}

// CompletedCount returns the number of completed tasks.
func (s *Store) CompletedCount() int {
	n := 0
	for _, t := range s.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Degraded reports whether the store has stopped persisting.
func (s *Store) Degraded() bool { return s.warning != nil }

// Warning returns the persistence failure that degraded the store, or nil.
func (s *Store) Warning() *PersistenceError { return s.warning }

// Discarded returns the decode error if the last Load dropped an unreadable
// collection. The next write replaces it.
func (s *Store) Discarded() error { return s.discarded }

func (s *Store) index(id task.ID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notFound(id task.ID) error {
	s.log.Debug("task not found", zap.String("id", string(id)))
	return ErrNotFound
}

func (s *Store) freshID() task.ID {
	for {
		id := s.newID()
		if id != "" && s.index(id) < 0 {
			return id
		}
	}
}

func (s *Store) freshIDExcluding(seen map[task.ID]bool) task.ID {
	for {
		id := s.freshID()
		if !seen[id] {
			return id
		}
	}
}

func (s *Store) persist(ctx context.Context) {
	if s.warning != nil {
		return
	}
	tasks := s.tasks
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err == nil {
		err = s.kv.Put(ctx, storage.TasksKey, data)
	}
	if err != nil {
		s.degrade(&PersistenceError{Op: "save", Err: err})
	}
}

func (s *Store) degrade(err *PersistenceError) {
	if s.warning != nil {
		return
	}
	s.warning = err
	s.log.Warn("storage unavailable; continuing in memory", zap.Error(err))
}
