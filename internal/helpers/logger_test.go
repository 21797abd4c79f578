package helpers

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("custom handler with group", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		h := slog.NewTextHandler(&buf, nil)

		gotHandler, logger := SetupLogger(h, "bridge", "Apply")
		require.Same(t, h, gotHandler)
		require.NotNil(t, logger)

		logger.Info("hello", "key", "value")
		require.Contains(t, buf.String(), "Apply.key=value")
	})

	t.Run("custom handler without group", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		h := slog.NewTextHandler(&buf, nil)

		_, logger := SetupLogger(h, "bridge", "")
		logger.Info("hello", "key", "value")
		require.Contains(t, buf.String(), " key=value")
	})

	t.Run("nil handler falls back to default", func(t *testing.T) {
		t.Parallel()
		gotHandler, logger := SetupLogger(nil, "bridge", "Apply")
		require.NotNil(t, gotHandler)
		require.NotNil(t, logger)
	})
}
