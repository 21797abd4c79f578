package bridge

import (
	"fmt"

	"github.com/robbyt/go-polybridge/platform/stack"
)

// shape is the calling convention found on the stack.
type shape int

const (
	// scriptOnly is `<script> OP`
	scriptOnly shape = iota
	// scriptWithInput is `<script> [inputs] OP`
	scriptWithInput
	// scriptWithInputOutput is `<script> [inputs] [outputs] OP`
	scriptWithInputOutput
)

func (s shape) String() string {
	switch s {
	case scriptOnly:
		return "ScriptOnly"
	case scriptWithInput:
		return "ScriptWithInput"
	case scriptWithInputOutput:
		return "ScriptWithInputOutput"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// valueKind classifies a popped value.
type valueKind int

const (
	kindOther valueKind = iota
	kindString
	kindContainer
)

func kindOf(v any) valueKind {
	if _, ok := v.(string); ok {
		return kindString
	}
	if stack.IsContainer(v) {
		return kindContainer
	}
	return kindOther
}

// arguments is what one call pops off the stack.
type arguments struct {
	shape  shape
	script string
	input  nameFilter
	output nameFilter
}

// popArguments pops one to three values. Popped values are not pushed back on failure.
func (b *Bridge) popArguments(s stack.Stack) (*arguments, error) {
	// containers holds the filters in pop order, nearest the top first
	var containers []any

	for {
		top, err := s.Pop()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrArgumentShape, b.name, err)
		}

		switch kindOf(top) {
		case kindContainer:
			if len(containers) == 2 {
				return nil, b.shapeError(top)
			}
			containers = append(containers, top)
			continue
		case kindString:
			return b.resolveShape(top.(string), containers), nil
		default:
			return nil, b.shapeError(top)
		}
	}
}

// resolveShape assigns the popped containers to filters. The container deepest
// in the stack is the input filter, the one above it the output filter.
func (b *Bridge) resolveShape(script string, containers []any) *arguments {
	args := &arguments{
		shape:  shape(len(containers)),
		script: script,
	}

	switch args.shape {
	case scriptOnly:
	case scriptWithInput:
		args.input = newNameFilter(containers[0])
	case scriptWithInputOutput:
		args.input = newNameFilter(containers[1])
		args.output = newNameFilter(containers[0])
	}
	return args
}

func (b *Bridge) shapeError(got any) error {
	return fmt.Errorf(
		"%w: %s expects a string on top of the stack or a string and one or two lists "+
			"(script | script [inputs] | script [inputs] [outputs]), got %T",
		ErrArgumentShape, b.name, got,
	)
}
