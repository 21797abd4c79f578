package polybridge_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/robbyt/go-polybridge"
	"github.com/robbyt/go-polybridge/bridge"
	"github.com/robbyt/go-polybridge/engines/extism"
	"github.com/robbyt/go-polybridge/engines/mocks"
	"github.com/robbyt/go-polybridge/engines/registry"
	"github.com/robbyt/go-polybridge/platform"
	"github.com/robbyt/go-polybridge/platform/script/loader"
	"github.com/robbyt/go-polybridge/platform/stack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func getHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func newFunctions(t *testing.T) *stack.Functions {
	t.Helper()
	star, err := polybridge.NewStarlarkBridge("STARLARK", polybridge.WithLogHandler(getHandler()))
	require.NoError(t, err)
	risor, err := polybridge.NewRisorBridge("RISOR", polybridge.WithLogHandler(getHandler()))
	require.NoError(t, err)

	functions := stack.NewFunctions()
	require.NoError(t, polybridge.Register(functions, star, risor))
	return functions
}

func TestStarlarkBridge(t *testing.T) {
	t.Parallel()
	functions := newFunctions(t)

	t.Run("shape with input and output lists", func(t *testing.T) {
		t.Parallel()
		s := stack.New("x = 1\ny = x + 1", []any{"x"}, []any{"y"})
		s.Store("x", int64(10))

		_, err := functions.Call(t.Context(), "STARLARK", s)
		require.NoError(t, err)

		assert.Equal(t, []any{nil}, s.Items())
		want := map[string]any{"x": int64(10), "y": int64(2)}
		if diff := cmp.Diff(want, s.SymbolTable()); diff != "" {
			t.Errorf("symbol table mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("default filters expose everything", func(t *testing.T) {
		t.Parallel()
		s := stack.New("result = a + b\nc = result * 2")
		s.Store("a", int64(2))
		s.Store("b", int64(3))

		_, err := functions.Call(t.Context(), "STARLARK", s)
		require.NoError(t, err)

		assert.Equal(t, []any{int64(5)}, s.Items())
		want := map[string]any{"a": int64(2), "b": int64(3), "c": int64(10), "result": int64(5)}
		if diff := cmp.Diff(want, s.SymbolTable()); diff != "" {
			t.Errorf("symbol table mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("expression result", func(t *testing.T) {
		t.Parallel()
		s := stack.New("2+2")

		_, err := functions.Call(t.Context(), "STARLARK", s)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(4)}, s.Items())
	})

	t.Run("input filter hides other variables", func(t *testing.T) {
		t.Parallel()
		s := stack.New("a + b", []any{"a"})
		s.Store("a", int64(1))
		s.Store("b", int64(2))

		_, err := functions.Call(t.Context(), "STARLARK", s)
		require.ErrorIs(t, err, bridge.ErrScriptFailed)
		require.ErrorIs(t, err, platform.ErrEvaluation)
		assert.Zero(t, s.Depth())
	})

	t.Run("output filter", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name    string
			output  []any
			wantSet bool
		}{
			{name: "empty list is unrestricted", output: []any{}, wantSet: true},
			{name: "restrictive list", output: []any{"d"}, wantSet: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				s := stack.New("c = 5", []any{}, tt.output)

				_, err := functions.Call(t.Context(), "STARLARK", s)
				require.NoError(t, err)

				_, ok := s.Load("c")
				assert.Equal(t, tt.wantSet, ok)
				assert.Equal(t, 1, s.Depth())
			})
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()
		s := stack.New(42)

		_, err := functions.Call(t.Context(), "STARLARK", s)
		require.ErrorIs(t, err, bridge.ErrArgumentShape)
	})
}

func TestRisorBridge(t *testing.T) {
	t.Parallel()
	functions := newFunctions(t)

	s := stack.New("total := price * qty\ntotal", []any{"price", "qty"}, []any{"total"})
	s.Store("price", int64(4))
	s.Store("qty", int64(3))
	s.Store("ignored", "value")

	_, err := functions.Call(t.Context(), "RISOR", s)
	require.NoError(t, err)

	assert.Equal(t, []any{int64(12)}, s.Items())
	total, ok := s.Load("total")
	require.True(t, ok)
	assert.Equal(t, int64(12), total)
}

func TestNewBridge(t *testing.T) {
	t.Parallel()

	t.Run("custom language through registry hook", func(t *testing.T) {
		t.Parallel()
		engine := &mocks.Engine{}
		engine.On("NewBindings").Return(platform.Bindings{}, nil)
		engine.On("Eval", mock.Anything, "ping", mock.Anything).Return("pong", nil)

		b, err := polybridge.NewBridge("ECHO", "echo",
			polybridge.WithLogHandler(getHandler()),
			polybridge.WithRegistry(func(r *registry.Registry) error {
				return r.Register(func() (platform.Engine, error) { return engine, nil }, "echo")
			}),
		)
		require.NoError(t, err)

		s := stack.New("ping")
		_, err = b.Apply(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, []any{"pong"}, s.Items())
		engine.AssertExpectations(t)
	})

	t.Run("unknown language fails on apply", func(t *testing.T) {
		t.Parallel()
		b, err := polybridge.NewBridge("LUA", "lua", polybridge.WithLogHandler(getHandler()))
		require.NoError(t, err)

		_, err = b.Apply(t.Context(), stack.New("x"))
		require.ErrorIs(t, err, bridge.ErrScriptFailed)
		require.ErrorIs(t, err, platform.ErrEngineNotFound)
	})

	t.Run("invalid options", func(t *testing.T) {
		t.Parallel()
		_, err := polybridge.NewStarlarkBridge("S", polybridge.WithLogHandler(nil))
		require.Error(t, err)
		_, err = polybridge.NewStarlarkBridge("")
		require.Error(t, err)
	})
}

func TestNewExtismBridge_InvalidModule(t *testing.T) {
	t.Parallel()
	l, err := loader.NewFromBytes([]byte("not wasm"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		module  any
		wantErr error
	}{
		{name: "loader", module: l, wantErr: extism.ErrCompileFailed},
		{name: "bytes", module: []byte{0x00, 0x61, 0x73}, wantErr: extism.ErrCompileFailed},
		{name: "missing file", module: "/does/not/exist.wasm", wantErr: loader.ErrScriptNotAvailable},
		{name: "unsupported type", module: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := polybridge.NewExtismBridge(t.Context(), "WASM", tt.module,
				polybridge.WithLogHandler(getHandler()))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	b, err := polybridge.NewStarlarkBridge("STARLARK", polybridge.WithLogHandler(getHandler()))
	require.NoError(t, err)

	functions := stack.NewFunctions()
	require.NoError(t, polybridge.Register(functions, b))
	require.ErrorIs(t, polybridge.Register(functions, b), stack.ErrDuplicateFunction)
	require.Error(t, polybridge.Register(nil, b))
	require.Error(t, polybridge.Register(functions, nil))
	assert.Equal(t, []string{"STARLARK"}, functions.Names())
}
