package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/task"
	"todo/internal/ui"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based row number, 0 if an id was given
	ID  string // full id or id prefix, empty if a number was given
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// minIDPrefix is the shortest id prefix accepted as a reference.
const minIDPrefix = 4

// ParseTaskRef parses a task reference from the first arg.
//
// Parsing rules:
// 1. If the arg is all digits → row number as printed by list
// 2. If the arg starts with '#' → the rest is an id or id prefix
// 3. Otherwise → id or id prefix
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	id := strings.TrimPrefix(arg, "#")
	if id == "" || strings.ContainsAny(id, " \t") {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{ID: id}, nil
}

// ResolveTaskRef maps a reference to the id of a task in st.
//
// Numbers index the full collection in insertion order. Ids match exactly
// first; otherwise a unique prefix of at least minIDPrefix characters is
// accepted.
func ResolveTaskRef(st *store.Store, ref TaskRef) (task.ID, error) {
	tasks := st.Tasks()

	if ref.ID == "" {
		if ref.Num < 1 || ref.Num > len(tasks) {
			return "", fmt.Errorf("task number out of range: %d", ref.Num)
		}
		return tasks[ref.Num-1].ID, nil
	}

	if _, ok := st.Get(task.ID(ref.ID)); ok {
		return task.ID(ref.ID), nil
	}

	if len(ref.ID) < minIDPrefix {
		return "", fmt.Errorf("task not found: %s", ref.ID)
	}

	var matches []task.ID
	for _, t := range tasks {
		if strings.HasPrefix(string(t.ID), ref.ID) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %s", ref.ID)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous task reference: %s", ref.ID)
	}
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveArg parses and resolves the task reference in args, printing the
// error and returning exitcode.UserError on failure.
func resolveArg(sess *ui.Session, args []string, errOut io.Writer) (task.ID, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError
	}

	id, err := ResolveTaskRef(sess.Store(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError
	}
	return id, exitcode.Success
}
