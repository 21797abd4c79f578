// Package bridge exposes a pluggable scripting language as a stack operation.
//
// A Bridge pops a script, and optionally an input and an output list of
// variable names, evaluates the script with a freshly resolved engine, and
// pushes the result. Variables flow in from the host symbol table before
// evaluation and back out afterwards:
//
//	<script> OP
//	<script> [inputs] OP
//	<script> [inputs] [outputs] OP
//
// An empty (or absent) list means every variable.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-polybridge/internal/helpers"
	"github.com/robbyt/go-polybridge/platform"
	"github.com/robbyt/go-polybridge/platform/stack"
)

// Bridge is a stack operation evaluating inline code in another language.
// Its configuration is fixed at construction and it keeps no state between calls.
type Bridge struct {
	name     string
	language string
	provider platform.Provider

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Bridge exposed under name that evaluates scripts in language,
// resolving engines through provider on every call.
func New(
	name, language string,
	provider platform.Provider,
	opts ...FunctionalOption,
) (*Bridge, error) {
	b := &Bridge{
		name:     name,
		language: language,
		provider: provider,
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	b.applyDefaults()
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.setupLogger()

	return b, nil
}

func (b *Bridge) String() string {
	return fmt.Sprintf("bridge.Bridge{Name: %s, Language: %s}", b.name, b.language)
}

// Name returns the name scripts call the operation by.
func (b *Bridge) Name() string {
	return b.name
}

// Language returns the language identifier engines are resolved with.
func (b *Bridge) Language() string {
	return b.language
}

// Apply runs one invocation against the stack and returns it.
//
// Argument errors wrap ErrArgumentShape and happen before any engine is
// resolved. Every other failure is logged and returned wrapped in
// ErrScriptFailed with its cause kept on the chain.
func (b *Bridge) Apply(ctx context.Context, s stack.Stack) (stack.Stack, error) {
	logger := b.logger.WithGroup("Apply")

	args, err := b.popArguments(s)
	if err != nil {
		return s, err
	}
	logger = logger.With("shape", args.shape.String(), "scriptID", helpers.ShortID(args.script))

	result, err := b.run(ctx, logger, s.SymbolTable(), args)
	if err != nil {
		logger.ErrorContext(ctx, "script failed", "error", err)
		return s, fmt.Errorf("%w: %s: %w", ErrScriptFailed, b.name, err)
	}

	s.Push(result)
	return s, nil
}

// run resolves an engine and evaluates the script, syncing variables with symbols.
func (b *Bridge) run(
	ctx context.Context,
	logger *slog.Logger,
	symbols map[string]any,
	args *arguments,
) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()

	engine, err := b.provider.Resolve(b.language)
	if err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, fmt.Errorf("%w: provider returned a nil engine for %q", platform.ErrEngineNotFound, b.language)
	}

	bindings, err := engine.NewBindings()
	if err != nil {
		if !errors.Is(err, platform.ErrBindings) {
			err = fmt.Errorf("%w: %w", platform.ErrBindings, err)
		}
		return nil, err
	}
	if bindings == nil {
		return nil, fmt.Errorf("%w: engine returned nil bindings", platform.ErrBindings)
	}

	copiedIn := args.input.copyInto(bindings, symbols)
	logger.DebugContext(ctx, "bindings prepared", "language", b.language, "copiedIn", copiedIn)

	result, err = engine.Eval(ctx, args.script, bindings)
	if err != nil {
		return nil, err
	}

	copiedOut := args.output.copyInto(symbols, bindings)
	logger.DebugContext(ctx, "script evaluated", "copiedOut", copiedOut)
	return result, nil
}
