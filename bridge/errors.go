package bridge

import "errors"

var (
	// ErrArgumentShape is returned when the values on the stack do not match any
	// accepted calling convention.
	ErrArgumentShape = errors.New("invalid arguments")

	// ErrScriptFailed wraps every failure raised while resolving an engine or
	// evaluating the script. The original cause stays on the error chain.
	ErrScriptFailed = errors.New("script execution failed")

	ErrInvalidConfig = errors.New("invalid bridge configuration")
)
