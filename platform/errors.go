package platform

import "errors"

var (
	ErrEngineNotFound   = errors.New("no scripting engine registered for language")
	ErrEvaluation       = errors.New("script evaluation failed")
	ErrBindings         = errors.New("unable to create bindings")
	ErrUnsupportedValue = errors.New("value cannot be represented in the target language")
)
