// Package polybridge wires bridges to the bundled scripting engines.
package polybridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-polybridge/bridge"
	"github.com/robbyt/go-polybridge/engines/extism"
	"github.com/robbyt/go-polybridge/engines/registry"
	"github.com/robbyt/go-polybridge/engines/types"
	"github.com/robbyt/go-polybridge/platform/script/loader"
	"github.com/robbyt/go-polybridge/platform/stack"
)

// Option configures the bridges built by this package.
type Option func(*config) error

type config struct {
	logHandler   slog.Handler
	extismOpts   []extism.FunctionalOption
	registryHook func(*registry.Registry) error
}

// WithLogHandler sets the log handler used by the bridge, the registry and the engines.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		return nil
	}
}

// WithExtismOptions passes options to the wasm plugin compiler.
func WithExtismOptions(opts ...extism.FunctionalOption) Option {
	return func(c *config) error {
		c.extismOpts = append(c.extismOpts, opts...)
		return nil
	}
}

// WithRegistry runs fn against the engine registry before the bridge is
// built, so callers can register additional languages.
func WithRegistry(fn func(*registry.Registry) error) Option {
	return func(c *config) error {
		if fn == nil {
			return fmt.Errorf("registry hook cannot be nil")
		}
		c.registryHook = fn
		return nil
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if c.logHandler == nil {
		c.logHandler = slog.Default().Handler()
	}
	return c, nil
}

// NewBridge builds a bridge named name for any language in the default registry.
func NewBridge(name, language string, opts ...Option) (*bridge.Bridge, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	reg, err := registry.NewDefault(cfg.logHandler)
	if err != nil {
		return nil, err
	}
	if cfg.registryHook != nil {
		if err := cfg.registryHook(reg); err != nil {
			return nil, err
		}
	}

	return bridge.New(name, language, reg, bridge.WithLogHandler(cfg.logHandler))
}

// NewStarlarkBridge builds a bridge evaluating Starlark.
func NewStarlarkBridge(name string, opts ...Option) (*bridge.Bridge, error) {
	return NewBridge(name, types.Starlark.String(), opts...)
}

// NewRisorBridge builds a bridge evaluating Risor.
func NewRisorBridge(name string, opts ...Option) (*bridge.Bridge, error) {
	return NewBridge(name, types.Risor.String(), opts...)
}

// NewExtismBridge compiles a wasm module and builds a bridge whose scripts
// name the export to call. The module is a loader.Loader, raw bytes, or a
// path or file:// URL. The returned plugin must be closed by the caller.
func NewExtismBridge(
	ctx context.Context,
	name string,
	module any,
	opts ...Option,
) (*bridge.Bridge, *extism.Plugin, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, nil, err
	}

	l, err := loader.InferLoader(module)
	if err != nil {
		return nil, nil, err
	}

	pluginOpts := append([]extism.FunctionalOption{extism.WithLogHandler(cfg.logHandler)}, cfg.extismOpts...)
	plugin, err := extism.Compile(ctx, l, pluginOpts...)
	if err != nil {
		return nil, nil, err
	}

	hook := cfg.registryHook
	b, err := NewBridge(name, types.Extism.String(),
		WithLogHandler(cfg.logHandler),
		WithRegistry(func(r *registry.Registry) error {
			if err := r.Register(plugin.Factory(), types.Extism.String()); err != nil {
				return err
			}
			if hook != nil {
				return hook(r)
			}
			return nil
		}),
	)
	if err != nil {
		_ = plugin.Close(ctx)
		return nil, nil, err
	}
	return b, plugin, nil
}

// Register adds the bridges to a function table under their names.
func Register(functions *stack.Functions, bridges ...*bridge.Bridge) error {
	if functions == nil {
		return fmt.Errorf("function table is nil")
	}
	for _, b := range bridges {
		if b == nil {
			return fmt.Errorf("bridge is nil")
		}
		if err := functions.Register(b); err != nil {
			return err
		}
	}
	return nil
}
