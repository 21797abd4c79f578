// Package extism calls exported functions of a WebAssembly module through
// the Extism SDK. The source handed to Eval is the name of the export.
package extism

import (
	"context"
	"fmt"
	"log/slog"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-polybridge/engines/registry"
	"github.com/robbyt/go-polybridge/internal/helpers"
	"github.com/robbyt/go-polybridge/platform"
	"github.com/robbyt/go-polybridge/platform/script/loader"
	"github.com/tetratelabs/wazero"
)

// Plugin is a compiled wasm module shared by every engine it creates.
type Plugin struct {
	compiled CompiledPlugin
	id       string
	source   string

	enableWASI    bool
	runtimeConfig wazero.RuntimeConfig
	hostFunctions []extismSDK.HostFunction

	logHandler slog.Handler
	logger     *slog.Logger
}

// Compile reads the module from the loader and compiles it once.
func Compile(ctx context.Context, l loader.Loader, opts ...FunctionalOption) (*Plugin, error) {
	p, err := newPlugin(opts...)
	if err != nil {
		return nil, err
	}

	wasmBytes, err := loader.ReadAll(l)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentNil, err)
	}
	p.id = helpers.ShortID(string(wasmBytes))
	if u := l.GetSourceURL(); u != nil {
		p.source = u.String()
	}

	manifest := extismSDK.Manifest{
		Wasm: []extismSDK.Wasm{
			extismSDK.WasmData{Data: wasmBytes},
		},
	}
	config := extismSDK.PluginConfig{
		EnableWasi:    p.enableWASI,
		RuntimeConfig: p.runtimeConfig,
	}

	compiled, err := extismSDK.NewCompiledPlugin(ctx, manifest, config, p.hostFunctions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	p.compiled = newCompiledPluginAdapter(compiled)

	p.logger.DebugContext(ctx, "module compiled", "id", p.id, "source", p.source)
	return p, nil
}

// newPlugin applies options without compiling anything.
func newPlugin(opts ...FunctionalOption) (*Plugin, error) {
	p := &Plugin{}
	p.applyDefaults()

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	p.setupLogger()
	return p, nil
}

func (p *Plugin) String() string {
	return fmt.Sprintf("extism.Plugin{ID: %s, Source: %s}", p.id, p.source)
}

// NewEngine returns an engine backed by the compiled plugin.
func (p *Plugin) NewEngine() *Engine {
	return &Engine{
		plugin: p.compiled,
		logger: p.logger.WithGroup("Engine").With("plugin", p.id),
	}
}

// Factory adapts the plugin for registration in a registry.
func (p *Plugin) Factory() registry.Factory {
	return func() (platform.Engine, error) {
		if p.compiled == nil {
			return nil, fmt.Errorf("%w: plugin is not compiled", ErrCompileFailed)
		}
		return p.NewEngine(), nil
	}
}

// Close releases the compiled module.
func (p *Plugin) Close(ctx context.Context) error {
	if p.compiled == nil {
		return nil
	}
	return p.compiled.Close(ctx)
}
