package errors

import (
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if ae, ok := err.(*AppError); ok {
		return a.exitCodeFromApp(ae)
	}
	return 1
}

// exitCodeFromApp maps AppError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromApp(err *AppError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage or catalogue contents
	case CategoryAuth:
		return 5 // Auth error
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryNetwork, CategoryAPI:
		return 8 // External system error
	case CategoryStore:
		return 9 // Persistence error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// Report logs the error with structured context before the caller exits.
func (a *CLIErrorAdapter) Report(err error) {
	if err == nil {
		return
	}
	ae, ok := err.(*AppError)
	if !ok {
		a.logger.Error("command failed", "error", err)
		return
	}
	attrs := []any{"category", string(ae.Category), "error", ae.Error()}
	if a.verbose {
		for k, v := range ae.Context {
			attrs = append(attrs, k, v)
		}
	}
	a.logger.Error("command failed", attrs...)
}
