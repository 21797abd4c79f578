package loader

import (
	"bytes"
	"io"
	"net/url"

	"github.com/stretchr/testify/mock"
)

// MockLoader implements the loader.Loader interface for testing
type MockLoader struct {
	mock.Mock
}

// GetSourceURL is a mock implementation of the GetSourceURL method.
func (m *MockLoader) GetSourceURL() *url.URL {
	args := m.Called()
	if u, ok := args.Get(0).(*url.URL); ok {
		return u
	}
	return nil
}

// GetReader is a mock implementation of the GetReader method.
func (m *MockLoader) GetReader() (io.ReadCloser, error) {
	args := m.Called()
	if r, ok := args.Get(0).(io.ReadCloser); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// NewMockLoaderWithContent returns a mock whose reader yields content once.
func NewMockLoaderWithContent(content []byte) *MockLoader {
	m := new(MockLoader)
	m.On("GetReader").Return(io.NopCloser(bytes.NewReader(content)), nil)
	m.On("GetSourceURL").Return(&url.URL{Scheme: "mock", Path: "/content"})
	return m
}
