package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/ui"
)

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd implements the theme command.
// With no argument it flips the stored dark-mode preference.
type ThemeCmd struct{}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Toggle or set dark mode" }
func (c *ThemeCmd) Usage() string     { return "todo theme [dark|light]" }
func (c *ThemeCmd) NeedsStore() bool  { return true }

func (c *ThemeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ThemeCmd) Run(ctx context.Context, cfg *config.Config, sess *ui.Session, args []string, out, errOut io.Writer) int {
	st := sess.Store()

	var dark bool
	switch {
	case len(args) == 0:
		dark = !st.DarkMode(ctx)
	case len(args) == 1 && strings.EqualFold(args[0], "dark"):
		dark = true
	case len(args) == 1 && strings.EqualFold(args[0], "light"):
		dark = false
	default:
		fmt.Fprintf(errOut, "error: unknown theme: %s\n", strings.Join(args, " "))
		return exitcode.UserError
	}

	st.SetDarkMode(ctx, dark)

	if !cfg.Quiet {
		if dark {
			fmt.Fprintln(out, "dark mode on")
		} else {
			fmt.Fprintln(out, "dark mode off")
		}
	}
	return exitcode.Success
}
