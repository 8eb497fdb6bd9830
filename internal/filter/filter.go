// Package filter derives the visible subset of a task collection.
package filter

import (
	"fmt"
	"strings"

	"todo/internal/task"
)

// Status selects tasks by completion state.
type Status int

const (
	All Status = iota
	Completed
	Pending
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Pending:
		return "pending"
	default:
		return "all"
	}
}

// ParseStatus parses a status label (case-insensitive, trimmed).
// An empty label yields All.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "completed", "done":
		return Completed, nil
	case "pending", "open":
		return Pending, nil
	}
	return All, fmt.Errorf("invalid status: %s", s)
}

// Match reports whether t satisfies the status.
func (s Status) Match(t task.Task) bool {
	switch s {
	case Completed:
		return t.Completed
	case Pending:
		return t.Pending()
	default:
		return true
	}
}

// Criteria is the search query plus status predicate.
type Criteria struct {
	// Query is matched case-insensitively against task text.
	// Empty matches everything.
	Query  string
	Status Status
}

// Match reports whether t satisfies both the query and the status.
func (c Criteria) Match(t task.Task) bool {
	if !c.Status.Match(t) {
		return false
	}
	if c.Query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), strings.ToLower(c.Query))
}

// Apply returns the tasks matching c in their original order.
// The input slice is never modified.
func Apply(tasks []task.Task, c Criteria) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Indexed pairs a task with its 1-based position in the full collection.
type Indexed struct {
	Num  int
	Task task.Task
}

// ApplyIndexed is like Apply but keeps each task's position in tasks, so
// rows in a filtered view can still be referenced by their stable number.
func ApplyIndexed(tasks []task.Task, c Criteria) []Indexed {
	var out []Indexed
	for i, t := range tasks {
		if c.Match(t) {
			out = append(out, Indexed{Num: i + 1, Task: t})
		}
	}
	return out
}
