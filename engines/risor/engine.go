// Package risor runs inline Risor source for the bridge.
package risor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	risorLib "github.com/risor-io/risor"
	risorObject "github.com/risor-io/risor/object"
	risorVM "github.com/risor-io/risor/vm"
	"github.com/robbyt/go-polybridge/platform"
)

// Engine evaluates Risor source. It implements platform.Engine.
type Engine struct {
	// builtins are the default global names, never copied back into bindings
	builtins map[string]struct{}

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Risor engine.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	e.applyDefaults()
	e.setupLogger()

	names := risorLib.NewConfig().GlobalNames()
	e.builtins = make(map[string]struct{}, len(names))
	for _, name := range names {
		e.builtins[name] = struct{}{}
	}
	return e, nil
}

func (e *Engine) String() string {
	return "risor.Engine"
}

// NewBindings returns an empty bindings map.
func (e *Engine) NewBindings() (platform.Bindings, error) {
	return make(platform.Bindings), nil
}

// Eval compiles and runs source with the bindings as globals. The result is
// the value left on top of the VM stack.
func (e *Engine) Eval(
	ctx context.Context,
	source string,
	bindings platform.Bindings,
) (any, error) {
	logger := e.logger.WithGroup("Eval")

	cfg := risorLib.NewConfig(e.globalOptions(ctx, logger, bindings)...)

	code, err := compile(ctx, source, cfg.CompilerOpts()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrEvaluation, err)
	}

	machine := risorVM.New(code, cfg.VMOpts()...)

	startTime := time.Now()
	err = machine.Run(ctx)
	execTime := time.Since(startTime)
	if err != nil {
		return nil, fmt.Errorf("%w: risor execution error: %w", platform.ErrEvaluation, err)
	}
	logger.DebugContext(ctx, "exec complete", "execTime", execTime)

	e.collectGlobals(ctx, logger, machine, bindings)

	result, ok := machine.TOS()
	if !ok || result == nil {
		return nil, nil
	}

	switch result.Type() {
	case "error":
		return nil, fmt.Errorf("%w: error returned from script: %s", platform.ErrEvaluation, result.Inspect())
	case "function", "builtin":
		return nil, fmt.Errorf("%w: function object returned from script: %s", platform.ErrUnsupportedValue, result.Inspect())
	}
	return result.Interface(), nil
}

// globalOptions converts each binding to a Risor object. Bindings that share a
// name with a builtin replace it. Values Risor cannot represent stay in the
// bindings but are not visible to the script.
func (e *Engine) globalOptions(
	ctx context.Context,
	logger *slog.Logger,
	bindings platform.Bindings,
) []risorLib.Option {
	opts := make([]risorLib.Option, 0, len(bindings))
	for name, value := range bindings {
		obj, err := toObject(value)
		if err != nil {
			logger.WarnContext(ctx, "binding not exposed to script", "name", name, "error", err)
			continue
		}
		if _, isBuiltin := e.builtins[name]; isBuiltin {
			opts = append(opts, risorLib.WithGlobalOverride(name, obj))
			continue
		}
		opts = append(opts, risorLib.WithGlobal(name, obj))
	}
	return opts
}

// toObject converts one host value, reporting unsupported kinds such as
// channels and funcs as ErrUnsupportedValue.
func toObject(value any) (obj risorObject.Object, err error) {
	if value == nil {
		return risorObject.Nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			obj, err = nil, fmt.Errorf("%w: %T: %v", platform.ErrUnsupportedValue, value, r)
		}
	}()
	converted, err := risorObject.AsObjects(map[string]any{"value": value})
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %w", platform.ErrUnsupportedValue, value, err)
	}
	return converted["value"], nil
}

// collectGlobals reads every binding and every script-level global back from the VM.
func (e *Engine) collectGlobals(
	ctx context.Context,
	logger *slog.Logger,
	machine *risorVM.VirtualMachine,
	bindings platform.Bindings,
) {
	for _, name := range machine.GlobalNames() {
		_, isBinding := bindings[name]
		if _, isBuiltin := e.builtins[name]; isBuiltin && !isBinding {
			continue
		}

		obj, err := machine.Get(name)
		if err != nil || obj == nil {
			logger.DebugContext(ctx, "global not readable", "name", name, "error", err)
			continue
		}
		if !isHostValue(obj) {
			logger.DebugContext(ctx, "global not copied to bindings", "name", name, "type", obj.Type())
			continue
		}
		bindings[name] = obj.Interface()
	}
}

// isHostValue reports whether a Risor object converts to a plain host value.
func isHostValue(obj risorObject.Object) bool {
	switch obj.Type() {
	case "function", "builtin", "module", "error":
		return false
	default:
		return true
	}
}
