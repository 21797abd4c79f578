package extism

import (
	"fmt"
	"log/slog"
	"os"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-polybridge/internal/helpers"
	"github.com/tetratelabs/wazero"
)

// FunctionalOption is a function that configures a Plugin
type FunctionalOption func(*Plugin) error

// WithWASI enables or disables WASI support in the plugin
func WithWASI(enabled bool) FunctionalOption {
	return func(p *Plugin) error {
		p.enableWASI = enabled
		return nil
	}
}

// WithRuntimeConfig creates an option to set a custom wazero runtime configuration
func WithRuntimeConfig(config wazero.RuntimeConfig) FunctionalOption {
	return func(p *Plugin) error {
		if config == nil {
			return fmt.Errorf("runtime config cannot be nil")
		}
		p.runtimeConfig = config
		return nil
	}
}

// WithHostFunctions creates an option to register host functions with the plugin
func WithHostFunctions(funcs []extismSDK.HostFunction) FunctionalOption {
	return func(p *Plugin) error {
		p.hostFunctions = funcs
		return nil
	}
}

// WithLogHandler creates an option to set the log handler for the plugin and its engines.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(p *Plugin) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		p.logHandler = handler
		p.logger = nil
		return nil
	}
}

// WithLogger creates an option to set a specific logger for the plugin and its engines.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(p *Plugin) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		p.logger = logger
		p.logHandler = nil
		return nil
	}
}

// applyDefaults sets the default values for a plugin
func (p *Plugin) applyDefaults() {
	p.enableWASI = true
	p.runtimeConfig = wazero.NewRuntimeConfig()
	p.hostFunctions = []extismSDK.HostFunction{}
}

// setupLogger configures the logger and handler based on the current state.
func (p *Plugin) setupLogger() {
	if p.logger != nil {
		p.logHandler = p.logger.Handler()
		return
	}
	if p.logHandler == nil {
		p.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	p.logHandler, p.logger = helpers.SetupLogger(p.logHandler, "extism", "Plugin")
}
