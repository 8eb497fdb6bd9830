// Package cli parses the command line and wires config, logging and storage
// into the selected command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/storage"
	"todo/internal/store"
	"todo/internal/ui"
)

// StoreFactory opens the key-value backend for cfg.
// Used to inject a fake backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config) (storage.KV, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store
// factory. A nil factory opens the backend named in the config.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// in answers confirmation prompts. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, in, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], in, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, in, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log := logging.New(logging.Options{
		Debug:     debug,
		Console:   errOut,
		File:      cfg.LogFile(),
		MaxSizeMB: cfg.Settings.Log.MaxSizeMB,
	})
	defer log.Sync() //nolint:errcheck

	if !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	kv := d.openKV(ctx, cfg, log)
	defer func() {
		if err := kv.Close(); err != nil {
			log.Error("failed to close storage", zap.Error(err))
		}
	}()

	st := store.New(kv, log.Named("store"))
	st.Load(ctx)
	if err := st.Discarded(); err != nil {
		fmt.Fprintf(errOut, "warning: saved tasks were unreadable and have been ignored: %v\n", err)
	}

	sess := ui.NewSession(st, ui.Prompt{In: in, Out: errOut})
	code := cmd.Run(ctx, cfg, sess, positionalArgs, out, errOut)

	if w := st.Warning(); w != nil {
		fmt.Fprintf(errOut, "warning: %v (changes are kept in memory only)\n", w)
	}
	return code
}

// openKV opens the configured backend. A backend that cannot be opened is
// replaced by one that fails every call, so the store degrades to memory.
func (d *Dispatcher) openKV(ctx context.Context, cfg *config.Config, log *zap.Logger) storage.KV {
	var (
		kv  storage.KV
		err error
	)
	if d.factory != nil {
		kv, err = d.factory(ctx, cfg)
	} else {
		kv, err = storage.Open(cfg.Settings.Storage.Backend, cfg.DataDir())
	}
	if err != nil {
		log.Debug("storage backend unavailable",
			zap.String("backend", cfg.Settings.Storage.Backend),
			zap.Error(err))
		return storage.Unavailable(err)
	}
	return kv
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// flag: "flag needs an argument: -due"
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagName
	}

	// flag: "flag provided but not defined: -x"
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		return "unknown flag: " + flagName
	}

	return errStr
}
