package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/filter"
	"todo/internal/render"
	"todo/internal/task"
	"todo/internal/ui"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list [--search q] [--status s]`.
type ListCmd struct {
	search string
	status string
	now    func() time.Time
}

// SetSearch sets the search flag (for testing).
func (c *ListCmd) SetSearch(q string) {
	c.search = q
}

// SetStatus sets the status flag (for testing).
func (c *ListCmd) SetStatus(s string) {
	c.status = s
}

// SetNow overrides the clock used for overdue markers (for testing).
func (c *ListCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todo list [--search <text>] [--status all|completed|pending]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *ui.Session, args []string, out, errOut io.Writer) int {
	status, err := filter.ParseStatus(c.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// Positional words are a shorthand for --search.
	query := c.search
	if len(args) > 0 {
		query = strings.TrimSpace(query + " " + strings.Join(args, " "))
	}

	sess.SetSearchQuery(query)
	sess.SetStatusFilter(status)

	st := sess.Store()
	if st.Len() == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	opts := render.Options{
		Color: cfg.Settings.Color,
		Dark:  st.DarkMode(ctx),
		Today: task.DateOf(now()),
	}

	if n := sess.Render(out, opts); n == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no matching tasks")
	}

	if !cfg.Quiet {
		render.Counters(out, st.PendingCount(), st.CompletedCount())
	}
	return exitcode.Success
}
