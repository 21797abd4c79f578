// Package loader reads script sources and WebAssembly modules from strings,
// byte slices, and files.
package loader

import (
	"fmt"
	"io"
	"net/url"
)

// Loader is an interface used by the engines to load scripts or binaries.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

// ReadAll reads the full content of a loader and closes the reader.
func ReadAll(l Loader) ([]byte, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: loader is nil", ErrScriptNotAvailable)
	}

	reader, err := l.GetReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptNotAvailable, err)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		_ = reader.Close()
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	if err := reader.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}

	if len(content) == 0 {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}
	return content, nil
}
