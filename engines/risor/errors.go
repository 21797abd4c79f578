package risor

import "errors"

var (
	ErrCompileFailed  = errors.New("failed to compile risor script")
	ErrContentNil     = errors.New("risor content is empty")
	ErrNoInstructions = errors.New("risor bytecode has zero instructions")
)
