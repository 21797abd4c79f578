package stack

import "errors"

var (
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrDuplicateFunction = errors.New("function already registered")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrInvalidFunction   = errors.New("invalid function")
)
