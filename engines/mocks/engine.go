package mocks

import (
	"context"

	"github.com/robbyt/go-polybridge/platform"
	"github.com/stretchr/testify/mock"
)

// Engine is a mock implementation of platform.Engine for testing purposes.
type Engine struct {
	mock.Mock
}

// NewBindings is a mock implementation of the NewBindings method.
func (m *Engine) NewBindings() (platform.Bindings, error) {
	args := m.Called()
	if b, ok := args.Get(0).(platform.Bindings); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// Eval is a mock implementation of the Eval method.
func (m *Engine) Eval(ctx context.Context, source string, bindings platform.Bindings) (any, error) {
	args := m.Called(ctx, source, bindings)
	return args.Get(0), args.Error(1)
}
