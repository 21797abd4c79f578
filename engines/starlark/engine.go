// Package starlark runs inline Starlark source for the bridge.
//
// Source that parses as a single expression is evaluated and its value is the
// result. Anything else is executed as a file and the result is the value of
// its "result" global, if the script sets one.
package starlark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/robbyt/go-polybridge/platform"
	"github.com/robbyt/go-polybridge/platform/constants"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Engine evaluates Starlark source. It implements platform.Engine.
type Engine struct {
	// universe holds the builtins and standard modules predeclared for scripts
	universe    starlarkLib.StringDict
	fileOptions *syntax.FileOptions

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Starlark engine.
func New(opts ...FunctionalOption) (*Engine, error) {
	e := &Engine{
		universe: standardModules(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	e.applyDefaults()
	e.setupLogger()
	return e, nil
}

func (e *Engine) String() string {
	return "starlark.Engine"
}

// NewBindings returns an empty bindings map.
func (e *Engine) NewBindings() (platform.Bindings, error) {
	return make(platform.Bindings), nil
}

// Eval evaluates source with the bindings predeclared, then writes the
// bindings and every convertible global the script defined back into bindings.
func (e *Engine) Eval(
	ctx context.Context,
	source string,
	bindings platform.Bindings,
) (any, error) {
	logger := e.logger.WithGroup("Eval")

	input, converted := e.convertBindings(ctx, logger, bindings)
	predeclared := e.prepareGlobals(input)

	thread := &starlarkLib.Thread{
		Name: "eval",
		Print: func(thread *starlarkLib.Thread, msg string) {
			logger.InfoContext(ctx, msg, "starlark-thread", thread.Name)
		},
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	var result starlarkLib.Value
	var globals starlarkLib.StringDict
	if expr, err := e.fileOptions.ParseExpr(constants.ScriptFilename, source, 0); err == nil {
		result, err = starlarkLib.EvalExprOptions(e.fileOptions, thread, expr, predeclared)
		if err != nil {
			return nil, e.evalError(ctx, logger, err)
		}
	} else {
		globals, err = starlarkLib.ExecFileOptions(e.fileOptions, thread, constants.ScriptFilename, source, predeclared)
		if err != nil {
			return nil, e.evalError(ctx, logger, err)
		}
		result = globals[constants.Result]
	}

	// Mutable inputs (lists, dicts, sets) may have been changed in place
	for _, name := range converted {
		v, err := toGo(input[name])
		if err != nil {
			logger.WarnContext(ctx, "unable to read back binding", "name", name, "error", err)
			continue
		}
		bindings[name] = v
	}
	// Globals shadow predeclared names, so they are copied last
	e.collectGlobals(ctx, logger, globals, bindings)

	out, err := toGo(result)
	if err != nil {
		return nil, fmt.Errorf("%w: result: %w", ErrConversion, err)
	}
	logger.DebugContext(ctx, "eval complete", "result", out)
	return out, nil
}

// convertBindings converts every binding it can. Values Starlark cannot
// represent are left out of the script's scope and keep their host value.
func (e *Engine) convertBindings(
	ctx context.Context,
	logger *slog.Logger,
	bindings platform.Bindings,
) (starlarkLib.StringDict, []string) {
	input := make(starlarkLib.StringDict, len(bindings))
	converted := make([]string, 0, len(bindings))
	for name, v := range bindings {
		sv, err := fromGo(v)
		if err != nil {
			logger.WarnContext(ctx, "binding not exposed to script", "name", name, "error", err)
			continue
		}
		input[name] = sv
		converted = append(converted, name)
	}
	return input, converted
}

// prepareGlobals merges the universe and input globals into a single Starlark dictionary
func (e *Engine) prepareGlobals(input starlarkLib.StringDict) starlarkLib.StringDict {
	merged := make(starlarkLib.StringDict, len(e.universe)+len(input))

	// Copy the pre-populated universe first
	maps.Copy(merged, e.universe)

	// Then add bindings, which may override universe values
	maps.Copy(merged, input)

	return merged
}

// collectGlobals copies script-defined globals into bindings. Functions and
// other values without a host representation are skipped.
func (e *Engine) collectGlobals(
	ctx context.Context,
	logger *slog.Logger,
	globals starlarkLib.StringDict,
	bindings platform.Bindings,
) {
	for name, sv := range globals {
		v, err := toGo(sv)
		if err != nil {
			logger.DebugContext(ctx, "global not copied to bindings", "name", name, "type", sv.Type())
			continue
		}
		bindings[name] = v
	}
}

func (e *Engine) evalError(ctx context.Context, logger *slog.Logger, err error) error {
	var evalErr *starlarkLib.EvalError
	if errors.As(err, &evalErr) {
		logger.DebugContext(ctx, "starlark backtrace", "backtrace", evalErr.Backtrace())
	}
	return fmt.Errorf("%w: %w", platform.ErrEvaluation, err)
}
