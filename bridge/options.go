package bridge

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robbyt/go-polybridge/internal/helpers"
)

// FunctionalOption is a function that configures a Bridge instance
type FunctionalOption func(*Bridge) error

// WithLogHandler creates an option to set the log handler for the bridge.
// This is the preferred option for logging configuration as it provides
// more flexibility through the slog.Handler interface.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(b *Bridge) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		b.logHandler = handler
		// Clear logger if handler is explicitly set
		b.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the bridge.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(b *Bridge) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		b.logger = logger
		// Clear handler if logger is explicitly set
		b.logHandler = nil
		return nil
	}
}

// applyDefaults sets the default values for a bridge
func (b *Bridge) applyDefaults() {
	if b.logHandler == nil && b.logger == nil {
		b.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
}

// setupLogger configures the logger and handler based on the current state.
func (b *Bridge) setupLogger() {
	if b.logger != nil {
		b.logHandler = b.logger.Handler()
		return
	}
	b.logHandler, b.logger = helpers.SetupLogger(b.logHandler, "bridge", b.name)
}

// validate checks if the bridge configuration is valid
func (b *Bridge) validate() error {
	if b.name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidConfig)
	}
	if b.language == "" {
		return fmt.Errorf("%w: language is empty", ErrInvalidConfig)
	}
	if b.provider == nil {
		return fmt.Errorf("%w: engine provider is nil", ErrInvalidConfig)
	}
	if b.logHandler == nil && b.logger == nil {
		return fmt.Errorf("%w: either log handler or logger must be specified", ErrInvalidConfig)
	}
	return nil
}
