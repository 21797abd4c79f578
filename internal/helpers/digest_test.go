package helpers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("forced read error") }

func TestDigest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{name: "hello world", input: "hello world", want: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Digest([]byte(tt.input)))

			fromReader, err := DigestReader(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, fromReader)

			assert.Equal(t, tt.want[:8], ShortDigest([]byte(tt.input)))
			assert.Equal(t, tt.want[:8], ShortID(tt.input))
		})
	}

	t.Run("reader error", func(t *testing.T) {
		t.Parallel()
		_, err := DigestReader(failingReader{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forced read error")
	})
}
