package extism

import "errors"

var (
	ErrCompileFailed   = errors.New("failed to compile wasm module")
	ErrContentNil      = errors.New("wasm content is empty")
	ErrEntryPointEmpty = errors.New("entry point is empty")
	ErrEntryPoint      = errors.New("entry point not exported by module")
	ErrNonZeroExit     = errors.New("function returned non-zero exit code")
)
