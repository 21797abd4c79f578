package mocks

import (
	"github.com/robbyt/go-polybridge/platform"
	"github.com/stretchr/testify/mock"
)

// Provider is a mock implementation of platform.Provider for testing purposes.
type Provider struct {
	mock.Mock
}

// Resolve is a mock implementation of the Resolve method.
func (m *Provider) Resolve(language string) (platform.Engine, error) {
	args := m.Called(language)
	if e, ok := args.Get(0).(platform.Engine); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
