package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// WithOutput redirects user-facing messages and replaces the exit function.
// Intended for tests.
func (a *CLIErrorAdapter) WithOutput(out io.Writer, exit func(int)) *CLIErrorAdapter {
	a.out = out
	a.exit = exit
	return a
}

// ExitCodeInterrupted is returned when a command stops because its context
// was cancelled, matching the shell convention for SIGINT.
const ExitCodeInterrupted = 130

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if stdErrors.Is(err, context.Canceled) {
		return ExitCodeInterrupted
	}

	if he, ok := As(err); ok {
		return a.exitCodeFromHotel(he)
	}

	return 1
}

// exitCodeFromHotel maps HotelError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromHotel(err *HotelError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryRoom:
		return 3 // Rejected by room state
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryStorage:
		if err.Code == CodeStorageCorrupt {
			return 1
		}
		return 11
	case CategoryInternal:
		return 10 // Internal error
	case CategoryRuntime:
		return 12 // Runtime error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	if stdErrors.Is(err, context.Canceled) {
		return "interrupted"
	}

	if he, ok := As(err); ok {
		return a.formatHotel(he)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatHotel formats a HotelError for display.
func (a *CLIErrorAdapter) formatHotel(err *HotelError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryValidation, CategoryRoom:
		return err.Message
	case CategoryConfig, CategoryStorage:
		if err.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", err.Category, err.Message, err.Cause)
		}
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(a.out, "%s\n", message)
	a.exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if stdErrors.Is(err, context.Canceled) {
		return false
	}
	if a.verbose {
		return true
	}

	if he, ok := As(err); ok {
		return he.Category == CategoryInternal ||
			he.Category == CategoryRuntime ||
			he.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if he, ok := As(err); ok {
		level := a.slogLevelFromSeverity(he.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(he.Category)),
		}
		if he.Code != CodeNone {
			attrs = append(attrs, slog.String("code", string(he.Code)))
		}
		if he.Cause != nil {
			attrs = append(attrs, slog.String("cause", he.Cause.Error()))
		}
		for k, v := range he.Context {
			attrs = append(attrs, slog.Any(k, v))
		}

		a.logger.LogAttrs(context.Background(), level, he.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts HotelError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
