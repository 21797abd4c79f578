package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"unicode/utf8"

	"github.com/robbyt/go-polybridge/internal/helpers"
)

// FromBytes serves content held in memory, typically a wasm module.
type FromBytes struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromBytes creates a loader over content. Text content made only of
// whitespace is rejected; binary content is accepted as is.
func NewFromBytes(content []byte) (*FromBytes, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}
	if isBlankText(content) {
		return nil, fmt.Errorf("%w: content contains only whitespace", ErrScriptNotAvailable)
	}

	return &FromBytes{
		content:   content,
		sourceURL: &url.URL{Scheme: "bytes", Host: "inline", Path: "/" + helpers.ShortDigest(content)},
	}, nil
}

func (l *FromBytes) String() string {
	return fmt.Sprintf("loader.FromBytes{Bytes: %d, Source: %s}", len(l.content), l.sourceURL)
}

// GetReader returns a reader over the stored content.
func (l *FromBytes) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

// GetSourceURL returns a bytes://inline/<digest> URL.
func (l *FromBytes) GetSourceURL() *url.URL {
	return l.sourceURL
}

func isBlankText(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return false
	}
	return len(bytes.TrimSpace(data)) == 0
}
