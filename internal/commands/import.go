package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/codec"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/store"
	"todo/internal/ui"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command.
type ImportCmd struct {
	format string
}

// SetFormat sets the format flag (for testing).
func (c *ImportCmd) SetFormat(format string) {
	c.format = format
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Append tasks from a file" }
func (c *ImportCmd) Usage() string     { return "todo import [--format json|yaml] [file]" }
func (c *ImportCmd) NeedsStore() bool  { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.format, "f", "", "")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, sess *ui.Session, args []string, out, errOut io.Writer) int {
	// No file selected: nothing happens.
	if len(args) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "nothing to import")
		}
		return exitcode.Success
	}
	if len(args) > 1 {
		fmt.Fprintln(errOut, "error: import takes a single file")
		return exitcode.UserError
	}
	path := args[0]

	format := codec.FormatFromPath(path, codec.JSON)
	if c.format != "" {
		var err error
		format, err = codec.ParseFormat(c.format)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open import file: %v\n", err)
		return exitcode.UserError
	}
	defer f.Close()

	res, err := sess.Store().Import(ctx, f, format)
	if err != nil {
		var importErr *store.ImportError
		if errors.As(err, &importErr) {
			fmt.Fprintf(errOut, "error: %v\n", importErr)
			return exitcode.ImportError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "imported %d tasks", res.Added)
		if res.Duplicates > 0 || res.Invalid > 0 {
			fmt.Fprintf(out, " (%d duplicates, %d invalid skipped)", res.Duplicates, res.Invalid)
		}
		fmt.Fprintln(out)
	}
	return exitcode.Success
}
