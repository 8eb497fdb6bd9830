// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including operations the
	// user declined or abandoned.
	Success = 0

	// UserError indicates a user error (bad args, empty text, unknown task).
	UserError = 1

	// ConfigError indicates an unreadable or invalid config.yaml.
	ConfigError = 2

	// ImportError indicates a malformed import document.
	ImportError = 3
)
