package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/ui"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *ui.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                               List all tasks
  todo list [common flags] [--search <text>] [--status all|completed|pending]
  todo add [common flags] [--due YYYY-MM-DD] [--priority low|medium|high] <text...>
  todo create [common flags] [--due YYYY-MM-DD] [--priority low|medium|high] <text...>
  todo toggle [common flags] <ref>
  todo done [common flags] <ref>
  todo edit [common flags] <ref> <text...>
  todo rm [common flags] [--yes] <ref>
  todo count [common flags]
  todo export [common flags] [--format json|yaml] [--output <path>|-]
  todo import [common flags] [--format json|yaml] [file]
  todo theme [common flags] [dark|light]
  todo help
  todo version

A <ref> is the row number printed by list, or a task id or unique id prefix.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
