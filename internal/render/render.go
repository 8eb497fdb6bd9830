// Package render writes the task list to a terminal.
//
// Every call rebuilds the whole list; there is no incremental patching.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"todo/internal/filter"
	"todo/internal/task"
)

// Options controls list rendering.
type Options struct {
	// Color enables ANSI escapes.
	Color bool

	// Dark selects the palette for dark terminals.
	Dark bool

	// Today marks pending tasks with an earlier due date as overdue.
	// The zero Date disables the marker.
	Today task.Date
}

// palette holds the ANSI sequences for one theme.
type palette struct {
	priority map[task.Priority]string
	done     string
	overdue  string
}

const reset = "\x1b[0m"

var (
	lightPalette = palette{
		priority: map[task.Priority]string{
			task.Low:    "\x1b[32m",
			task.Medium: "\x1b[33m",
			task.High:   "\x1b[31m",
		},
		done:    "\x1b[90m",
		overdue: "\x1b[31;1m",
	}
	darkPalette = palette{
		priority: map[task.Priority]string{
			task.Low:    "\x1b[92m",
			task.Medium: "\x1b[93m",
			task.High:   "\x1b[91m",
		},
		done:    "\x1b[37;2m",
		overdue: "\x1b[91;1m",
	}
)

// Render writes one line per row.
// Format: "{N:>4}  [x] {TEXT}  due {DATE}  [{PRIORITY}]\n"
// N is the row's position in the full collection, which is what the
// mutation commands accept as a reference.
func Render(w io.Writer, rows []filter.Indexed, opts Options) {
	for _, row := range rows {
		renderRow(w, row, opts)
	}
}

func renderRow(w io.Writer, row filter.Indexed, opts Options) {
	t := row.Task
	p := lightPalette
	if opts.Dark {
		p = darkPalette
	}

	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}

	text := normalizeText(t.Text)
	if t.Completed {
		text = paint(opts, p.done, text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %s %s", row.Num, box, text)

	if !t.DueDate.IsZero() {
		due := "due " + t.DueDate.String()
		if isOverdue(t, opts.Today) {
			due = paint(opts, p.overdue, due+" (overdue)")
		}
		fmt.Fprintf(&b, "  %s", due)
	}

	fmt.Fprintf(&b, "  %s", paint(opts, p.priority[t.Priority], "["+t.Priority.String()+"]"))
	fmt.Fprintln(w, b.String())
}

// Counters writes the derived counters line.
func Counters(w io.Writer, pending, completed int) {
	fmt.Fprintf(w, "%d pending, %d completed\n", pending, completed)
}

func isOverdue(t task.Task, today task.Date) bool {
	return !t.Completed && !today.IsZero() && t.DueDate.Before(today)
}

func paint(opts Options, code, s string) string {
	if !opts.Color || code == "" {
		return s
	}
	return code + s + reset
}

// normalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines and other non-printable runes (escape sequences, BEL) are
//   replaced with spaces
func normalizeText(text string) string {
	text = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return ' '
		}
		return r
	}, text)

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
