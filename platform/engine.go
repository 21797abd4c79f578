package platform

import "context"

// Bindings maps variable names to host values. An engine reads it before
// evaluation and the caller reads it back afterwards.
type Bindings map[string]any

// Engine is a scripting engine instance for one language.
type Engine interface {
	// NewBindings returns a fresh bindings map owned by this engine. Engines may
	// pre-populate it with their own entries.
	NewBindings() (Bindings, error)

	// Eval evaluates source against the bindings and returns the single result
	// value. When Eval returns, the bindings hold every entry they held before
	// (possibly changed by the script) plus every variable the script defined.
	//
	// Failures raised by the target language wrap ErrEvaluation.
	Eval(ctx context.Context, source string, bindings Bindings) (any, error)
}

// Provider resolves scripting engines by language name.
type Provider interface {
	// Resolve returns a new engine for the language, or an error wrapping
	// ErrEngineNotFound when no engine is registered under that name.
	Resolve(language string) (Engine, error)
}
