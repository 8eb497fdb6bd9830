package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/render"
	"todo/internal/ui"
)

func init() {
	Register(&CountCmd{})
}

// CountCmd implements the count command.
type CountCmd struct{}

func (c *CountCmd) Name() string      { return "count" }
func (c *CountCmd) Aliases() []string { return nil }
func (c *CountCmd) Synopsis() string  { return "Print pending and completed counts" }
func (c *CountCmd) Usage() string     { return "todo count" }
func (c *CountCmd) NeedsStore() bool  { return true }

func (c *CountCmd) RegisterFlags(fs *flag.FlagSet) {}

// Run always prints the counters, even with --quiet; they are the result.
func (c *CountCmd) Run(ctx context.Context, cfg *config.Config, sess *ui.Session, args []string, out, errOut io.Writer) int {
	st := sess.Store()
	render.Counters(out, st.PendingCount(), st.CompletedCount())
	return exitcode.Success
}
