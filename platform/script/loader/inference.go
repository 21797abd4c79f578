package loader

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// InferLoader analyzes the input and returns an appropriate loader based on type inference.
// It supports the following input types:
//   - string: file:// URLs and paths load from disk, anything else is inline content
//   - []byte: Returns FromBytes loader
//   - Loader: Returns as-is
//
// Returns an error if the input type is unsupported or if loader creation fails.
func InferLoader(input any) (Loader, error) {
	switch v := input.(type) {
	case string:
		return inferFromString(v)
	case []byte:
		return NewFromBytes(v)
	case Loader:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported input type: %T", input)
	}
}

// inferFromString checks for a file URL or path and falls back to treating
// the string as inline content.
func inferFromString(input string) (Loader, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty string input", ErrScriptNotAvailable)
	}

	if parsed, err := url.Parse(input); err == nil && parsed.Scheme != "" {
		switch parsed.Scheme {
		case "file":
			return NewFromPath(parsed.Path)
		case "http", "https":
			return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, parsed.Scheme)
		}
	}

	// Scripts rarely contain path separators without spaces or newlines
	looksLikePath := !strings.ContainsAny(input, " \n\t") &&
		(filepath.IsAbs(input) || strings.Contains(input, "/") || strings.Contains(input, "\\"))
	if looksLikePath {
		return NewFromPath(input)
	}

	return NewFromString(input)
}

// NewFromPath creates a disk loader, resolving relative paths against the
// working directory.
func NewFromPath(path string) (Loader, error) {
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
		}
		path = absPath
	}
	return NewFromDisk(path)
}
