package starlark

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robbyt/go-polybridge/internal/helpers"
	"go.starlark.net/syntax"
)

// FunctionalOption is a function that configures an Engine instance
type FunctionalOption func(*Engine) error

// WithLogHandler creates an option to set the log handler for the Starlark engine.
// Script print() output is written to this handler.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(e *Engine) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		e.logHandler = handler
		e.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the Starlark engine.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(e *Engine) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		e.logger = logger
		e.logHandler = nil
		return nil
	}
}

// WithFileOptions sets the dialect options used to parse scripts.
func WithFileOptions(opts *syntax.FileOptions) FunctionalOption {
	return func(e *Engine) error {
		if opts == nil {
			return fmt.Errorf("file options cannot be nil")
		}
		e.fileOptions = opts
		return nil
	}
}

// defaultFileOptions enables the dialect features scripts commonly rely on.
// GlobalReassign lets a script assign a variable more than once at top level.
func defaultFileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// applyDefaults sets the default values for an engine
func (e *Engine) applyDefaults() {
	if e.logHandler == nil && e.logger == nil {
		e.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	if e.fileOptions == nil {
		e.fileOptions = defaultFileOptions()
	}
}

// setupLogger configures the logger and handler based on the current state.
func (e *Engine) setupLogger() {
	if e.logger != nil {
		e.logHandler = e.logger.Handler()
		return
	}
	e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "starlark", "Engine")
}
