package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"todo/internal/codec"
	"todo/internal/storage"
	"todo/internal/task"
	"todo/internal/testutil"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestStore returns a loaded store with a fixed clock and sequential ids.
func newTestStore(t *testing.T, kv *testutil.FakeKV) *Store {
	t.Helper()
	s := New(kv, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	n := 0
	s.newID = func() task.ID {
		n++
		return task.ID(fmt.Sprintf("id-%d", n))
	}
	s.Load(context.Background())
	return s
}

func mustCreate(t *testing.T, s *Store, text string) task.Task {
	t.Helper()
	created, err := s.Create(context.Background(), text, task.Date{}, task.Low)
	if err != nil {
		t.Fatalf("unexpected error creating %q: %v", text, err)
	}
	return created
}

func TestCreate_RejectsEmptyText(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := newTestStore(t, kv)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(context.Background(), text, task.Date{}, task.Low)
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("Create(%q): expected ErrEmptyText, got %v", text, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected empty collection, got %d tasks", s.Len())
	}
	if kv.Puts[storage.TasksKey] != 0 {
		t.Errorf("expected no writes, got %d", kv.Puts[storage.TasksKey])
	}
}

func TestCreate_Defaults(t *testing.T) {
	kv := testutil.NewFakeKV()
	s := newTestStore(t, kv)

	got, err := s.Create(context.Background(), "  Buy milk  ", task.NewDate(2024, time.July, 4), task.High)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := task.Task{
		ID:        "id-1",
		Text:      "Buy milk",
		DueDate:   task.NewDate(2024, time.July, 4),
		Priority:  task.High,
		CreatedAt: fixedNow,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if kv.Puts[storage.TasksKey] != 1 {
		t.Errorf("expected one write-through, got %d", kv.Puts[storage.TasksKey])
	}
}

func TestCreate_UniqueIDsOnCollision(t *testing.T) {
	s := newTestStore(t, testutil.NewFakeKV())
	ids := []task.ID{"same", "same", "other"}
	s.newID = func() task.ID {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	a := mustCreate(t, s, "a")
	b := mustCreate(t, s, "b")

	if a.ID == b.ID {
		t.Errorf("expected distinct ids, both were %q", a.ID)
	}
}

func TestCreate_RealIDs(t *testing.T) {
	s := New(testutil.NewFakeKV(), nil)

	a, _ := s.Create(context.Background(), "a", task.Date{}, task.Low)
	b, _ := s.Create(context.Background(), "b", task.Date{}, task.Low)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
}

func TestScenario_CreateCompleteDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testutil.NewFakeKV())

	created, err := s.Create(ctx, "Buy milk", task.Date{}, task.High)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 1 || s.PendingCount() != 1 {
		t.Fatalf("expected 1 pending task, got len=%d pending=%d", s.Len(), s.PendingCount())
	}

	if err := s.SetCompleted(ctx, created.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.PendingCount() != 0 || s.CompletedCount() != 1 {
		t.Errorf("expected 0 pending / 1 completed, got %d / %d", s.PendingCount(), s.CompletedCount())
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty collection, got %d", s.Len())
	}
}

func TestCounts_SumToTotal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testutil.NewFakeKV())

	for i := 0; i < 7; i++ {
		created := mustCreate(t, s, fmt.Sprintf("task %d", i))
		if i%3 == 0 {
			_ = s.SetCompleted(ctx, created.ID, true)
		}
		if s.PendingCount()+s.CompletedCount() != s.Len() {
			t.Fatalf("counts diverged after %d creates", i+1)
		}
	}
}

func TestToggle_Twice(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testutil.NewFakeKV())
	created := mustCreate(t, s, "a")

	first, err := s.Toggle(ctx, created.ID)
	if err != nil || !first.Completed {
		t.Fatalf("expected completed after first toggle, got %+v (%v)", first, err)
	}
	second, err := s.Toggle(ctx, created.ID)
	if err != nil || second.Completed {
		t.Fatalf("expected pending after second toggle, got %+v (%v)", second, err)
	}
}

func TestMutations_KeepOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testutil.NewFakeKV())
	a := mustCreate(t, s, "a")
	mustCreate(t, s, "b")
	c := mustCreate(t, s, "c")

	_, _ = s.Toggle(ctx, a.ID)
	_ = s.Edit(ctx, c.ID, "c2")

	var texts []string
	for _, tk := range s.Tasks() {
		texts = append(texts, tk.Text)
	}
	if !reflect.DeepEqual(texts, []string{"a", "b", "c2"}) {
		t.Errorf("expected insertion order preserved, got %v", texts)
	}
}

func TestUnknownID(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewFakeKV()
	s := newTestStore(t, kv)
	mustCreate(t, s, "a")
	writes := kv.Puts[storage.TasksKey]

	if err := s.SetCompleted(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCompleted: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Toggle(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle: expected ErrNotFound, got %v", err)
	}
	if err := s.Edit(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Edit: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
	if kv.Puts[storage.TasksKey] != writes {
		t.Error("expected no writes for unknown ids")
	}
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testutil.NewFakeKV())
	created := mustCreate(t, s, "old")

	if err := s.Edit(ctx, created.ID, "   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if err := s.Edit(ctx, created.ID, " new "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := s.Get(created.ID)
	if got.Text != "new" {
		t.Errorf("expected 'new', got %q", got.Text)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Error("createdAt must not change on edit")
	}
}

func TestLoad_PersistedState(t *testing.T) {
	kv := testutil.NewFakeKV()
	first := newTestStore(t, kv)
	mustCreate(t, first, "a")
	mustCreate(t, first, "b")

	second := newTestStore(t, kv)
	if !reflect.DeepEqual(second.Tasks(), first.Tasks()) {
		t.Errorf("expected reloaded tasks %+v, got %+v", first.Tasks(), second.Tasks())
	}
}

func TestLoad_CorruptData(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.Set(storage.TasksKey, "{not json")

	s := newTestStore(t, kv)

	if s.Len() != 0 {
		t.Errorf("expected empty collection, got %d", s.Len())
	}
	if s.Degraded() {
		t.Error("corrupt data should not degrade the store")
	}
	if s.Discarded() == nil {
		t.Error("expected Discarded to report the decode error")
	}

	mustCreate(t, s, "fresh start")
	if got, _ := kv.Value(storage.TasksKey); !strings.Contains(got, "fresh start") {
		t.Errorf("expected corrupt slot to be overwritten, got %q", got)
	}
}

func TestLoad_BackendUnavailable(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.GetErr = errors.New("disk on fire")

	s := newTestStore(t, kv)

	if !s.Degraded() {
		t.Fatal("expected store to degrade")
	}
	if s.Warning().Op != "load" {
		t.Errorf("expected load warning, got %q", s.Warning().Op)
	}

	// Still usable in memory.
	mustCreate(t, s, "a")
	if s.Len() != 1 {
		t.Errorf("expected in-memory task, got %d", s.Len())
	}
	if kv.Puts[storage.TasksKey] != 0 {
		t.Error("expected no writes after degrading")
	}
}

func TestPersist_FailureDegradesOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	kv := testutil.NewFakeKV()
	s := New(kv, zap.New(core))
	s.Load(context.Background())

	kv.PutErr = errors.New("quota exceeded")
	mustCreate(t, s, "a")
	mustCreate(t, s, "b")

	if !s.Degraded() {
		t.Fatal("expected store to degrade")
	}
	var perr *PersistenceError
	if !errors.As(s.Warning(), &perr) || perr.Op != "save" {
		t.Errorf("expected save PersistenceError, got %v", s.Warning())
	}
	if !strings.Contains(s.Warning().Error(), "quota exceeded") {
		t.Errorf("expected cause in message, got %q", s.Warning().Error())
	}
	if logs.Len() != 1 {
		t.Errorf("expected exactly one warning, got %d", logs.Len())
	}
	if s.Len() != 2 {
		t.Errorf("expected both tasks kept in memory, got %d", s.Len())
	}
}

func TestImportBatch_AppendsAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, testutil.NewFakeKV())
	existing := mustCreate(t, s, "existing")

	res := s.ImportBatch(ctx, []task.Task{
		{ID: "x", Text: "imported"},
		{ID: existing.ID, Text: "clash with store"},
		{ID: "x", Text: "clash within batch"},
		{ID: "y", Text: "   "},
		{Text: "no id"},
	})

	want := ImportResult{Added: 2, Duplicates: 2, Invalid: 1}
	if res != want {
		t.Errorf("expected %+v, got %+v", want, res)
	}

	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[1].ID != "x" || tasks[1].Text != "imported" {
		t.Errorf("expected imported task appended after existing, got %+v", tasks[1])
	}
	if tasks[2].ID == "" || tasks[2].CreatedAt.IsZero() {
		t.Errorf("expected id and createdAt filled in, got %+v", tasks[2])
	}
}

func TestImport_Malformed(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewFakeKV()
	s := newTestStore(t, kv)
	mustCreate(t, s, "keep me")
	before := s.Tasks()
	writes := kv.Puts[storage.TasksKey]

	for _, doc := range []string{`{"id":"a"}`, `not json`, `[{"id":`} {
		_, err := s.Import(ctx, strings.NewReader(doc), codec.JSON)

		var ierr *ImportError
		if !errors.As(err, &ierr) {
			t.Errorf("Import(%q): expected *ImportError, got %v", doc, err)
		}
	}

	if !reflect.DeepEqual(s.Tasks(), before) {
		t.Error("expected collection unchanged after failed imports")
	}
	if kv.Puts[storage.TasksKey] != writes {
		t.Error("expected no writes after failed imports")
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t, testutil.NewFakeKV())
	mustCreate(t, src, "a")
	b, _ := src.Create(ctx, "b", task.NewDate(2024, time.December, 24), task.Medium)
	_ = src.SetCompleted(ctx, b.ID, true)

	for _, f := range []codec.Format{codec.JSON, codec.YAML} {
		var buf bytes.Buffer
		if err := src.Export(&buf, f); err != nil {
			t.Fatalf("unexpected export error: %v", err)
		}

		dst := newTestStore(t, testutil.NewFakeKV())
		res, err := dst.Import(ctx, &buf, f)
		if err != nil {
			t.Fatalf("unexpected import error: %v", err)
		}
		if res.Added != 2 {
			t.Errorf("%s: expected 2 added, got %d", f, res.Added)
		}
		if !reflect.DeepEqual(dst.Tasks(), src.Tasks()) {
			t.Errorf("%s: expected %+v, got %+v", f, src.Tasks(), dst.Tasks())
		}
	}
}

func TestExportSnapshot_IsCopy(t *testing.T) {
	s := newTestStore(t, testutil.NewFakeKV())
	mustCreate(t, s, "a")

	snap := s.ExportSnapshot()
	snap[0].Text = "mutated"

	got, _ := s.Get(snap[0].ID)
	if got.Text != "a" {
		t.Errorf("snapshot mutation leaked into store: %q", got.Text)
	}
}

func TestDarkMode(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewFakeKV()
	s := newTestStore(t, kv)

	if s.DarkMode(ctx) {
		t.Error("expected dark mode off by default")
	}
	s.SetDarkMode(ctx, true)
	if !s.DarkMode(ctx) {
		t.Error("expected dark mode on")
	}
	if v, _ := kv.Value(storage.DarkModeKey); v != "true" {
		t.Errorf("expected stored 'true', got %q", v)
	}
}

func TestNew_NilLoggerDegrades(t *testing.T) {
	kv := testutil.NewFakeKV()
	kv.PutErr = errors.New("read-only")

	s := New(kv, nil)
	s.Load(context.Background())
	mustCreate(t, s, "Buy milk")

	if !s.Degraded() || s.Len() != 1 {
		t.Errorf("expected degraded store holding 1 task, got degraded=%v len=%d", s.Degraded(), s.Len())
	}
}
