// Package stack holds the host side of the bridge: the operand stack and
// symbol table a stack operation works on, and a table of named operations.
//
// The symbol table returned by a Stack is shared and mutable. Its contract is
// single writer, single reader at a time: hosts running scripts on several
// goroutines must hand out an externally synchronized table.
package stack

import (
	"fmt"
	"slices"
)

// Stack is a LIFO operand container with a shared symbol table.
type Stack interface {
	// Pop removes and returns the top value, or an error wrapping
	// ErrStackUnderflow when the stack is empty.
	Pop() (any, error)

	// Push places a value on top of the stack.
	Push(v any)

	// SymbolTable returns the live, mutable variable table.
	SymbolTable() map[string]any
}

// MemStack is a slice-backed Stack.
type MemStack struct {
	items   []any
	symbols map[string]any
}

// New creates a MemStack holding the given values, bottom first.
func New(values ...any) *MemStack {
	items := make([]any, 0, len(values))
	items = append(items, values...)
	return &MemStack{
		items:   items,
		symbols: make(map[string]any),
	}
}

func (s *MemStack) String() string {
	return fmt.Sprintf("stack.MemStack{Depth: %d, Symbols: %d}", len(s.items), len(s.symbols))
}

// Pop removes and returns the top value.
func (s *MemStack) Pop() (any, error) {
	if len(s.items) == 0 {
		return nil, ErrStackUnderflow
	}
	last := len(s.items) - 1
	v := s.items[last]
	s.items[last] = nil
	s.items = s.items[:last]
	return v, nil
}

// Push places a value on top of the stack.
func (s *MemStack) Push(v any) {
	s.items = append(s.items, v)
}

// Peek returns the top value without removing it.
func (s *MemStack) Peek() (any, error) {
	if len(s.items) == 0 {
		return nil, ErrStackUnderflow
	}
	return s.items[len(s.items)-1], nil
}

// Depth returns the number of values on the stack.
func (s *MemStack) Depth() int {
	return len(s.items)
}

// Items returns a copy of the stack contents, bottom first.
func (s *MemStack) Items() []any {
	return slices.Clone(s.items)
}

// Clear empties the stack. The symbol table is kept.
func (s *MemStack) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// SymbolTable returns the live symbol table.
func (s *MemStack) SymbolTable() map[string]any {
	return s.symbols
}

// Load returns the value of a variable.
func (s *MemStack) Load(name string) (any, bool) {
	v, ok := s.symbols[name]
	return v, ok
}

// Store sets a variable.
func (s *MemStack) Store(name string, v any) {
	s.symbols[name] = v
}
