package extism

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-polybridge/platform"
	"github.com/robbyt/go-polybridge/platform/script/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompiledPlugin struct {
	mock.Mock
}

func (m *mockCompiledPlugin) Instance(
	ctx context.Context,
	cfg extismSDK.PluginInstanceConfig,
) (PluginInstance, error) {
	args := m.Called(ctx, cfg)
	instance, _ := args.Get(0).(PluginInstance)
	return instance, args.Error(1)
}

func (m *mockCompiledPlugin) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockPluginInstance struct {
	mock.Mock
}

func (m *mockPluginInstance) CallWithContext(
	ctx context.Context,
	name string,
	data []byte,
) (uint32, []byte, error) {
	args := m.Called(ctx, name, data)
	output, _ := args.Get(1).([]byte)
	return args.Get(0).(uint32), output, args.Error(2)
}

func (m *mockPluginInstance) FunctionExists(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

func (m *mockPluginInstance) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestPlugin(t *testing.T, compiled CompiledPlugin) *Plugin {
	t.Helper()
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	p, err := newPlugin(WithLogHandler(handler))
	require.NoError(t, err)
	p.compiled = compiled
	p.id = "test"
	return p
}

func TestEngine_Eval(t *testing.T) {
	t.Parallel()

	t.Run("object output merged into bindings", func(t *testing.T) {
		t.Parallel()
		instance := &mockPluginInstance{}
		instance.On("FunctionExists", "greet").Return(true)
		instance.On("CallWithContext", mock.Anything, "greet", []byte(`{"name":"World"}`)).
			Return(uint32(0), []byte(`{"greeting":"Hello, World!","count":3}`), nil)
		instance.On("Close", mock.Anything).Return(nil)

		compiled := &mockCompiledPlugin{}
		compiled.On("Instance", mock.Anything, mock.Anything).Return(instance, nil)

		engine := newTestPlugin(t, compiled).NewEngine()
		bindings := platform.Bindings{"name": "World"}

		result, err := engine.Eval(t.Context(), " greet\n", bindings)
		require.NoError(t, err)

		expected := map[string]any{"greeting": "Hello, World!", "count": int64(3)}
		assert.Equal(t, expected, result)
		assert.Equal(t, "World", bindings["name"])
		assert.Equal(t, "Hello, World!", bindings["greeting"])
		assert.Equal(t, int64(3), bindings["count"])
		instance.AssertExpectations(t)
		compiled.AssertExpectations(t)
	})

	t.Run("scalar and raw outputs", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name     string
			output   []byte
			expected any
		}{
			{name: "integer", output: []byte("42"), expected: int64(42)},
			{name: "float", output: []byte("1.5"), expected: 1.5},
			{name: "list", output: []byte(`[1,"a"]`), expected: []any{int64(1), "a"}},
			{name: "raw text", output: []byte("not json"), expected: "not json"},
			{name: "empty", output: nil, expected: nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				instance := &mockPluginInstance{}
				instance.On("FunctionExists", "run").Return(true)
				instance.On("CallWithContext", mock.Anything, "run", []byte("{}")).
					Return(uint32(0), tt.output, nil)
				instance.On("Close", mock.Anything).Return(nil)

				compiled := &mockCompiledPlugin{}
				compiled.On("Instance", mock.Anything, mock.Anything).Return(instance, nil)

				bindings := platform.Bindings{}
				result, err := newTestPlugin(t, compiled).NewEngine().
					Eval(t.Context(), "run", bindings)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
				assert.Empty(t, bindings)
			})
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		callErr := errors.New("trap")

		tests := []struct {
			name      string
			source    string
			exists    bool
			exit      uint32
			callErr   error
			wantErrIs []error
		}{
			{
				name:      "empty entry point",
				source:    "  ",
				wantErrIs: []error{platform.ErrEvaluation, ErrEntryPointEmpty},
			},
			{
				name:      "missing export",
				source:    "missing",
				exists:    false,
				wantErrIs: []error{platform.ErrEvaluation, ErrEntryPoint},
			},
			{
				name:      "non-zero exit",
				source:    "fails",
				exists:    true,
				exit:      1,
				wantErrIs: []error{platform.ErrEvaluation, ErrNonZeroExit},
			},
			{
				name:      "call error",
				source:    "traps",
				exists:    true,
				callErr:   callErr,
				wantErrIs: []error{platform.ErrEvaluation, callErr},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				instance := &mockPluginInstance{}
				instance.On("FunctionExists", mock.Anything).Return(tt.exists)
				instance.On("CallWithContext", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.exit, []byte(nil), tt.callErr)
				instance.On("Close", mock.Anything).Return(nil)

				compiled := &mockCompiledPlugin{}
				compiled.On("Instance", mock.Anything, mock.Anything).Return(instance, nil)

				_, err := newTestPlugin(t, compiled).NewEngine().
					Eval(t.Context(), tt.source, platform.Bindings{})
				require.Error(t, err)
				for _, target := range tt.wantErrIs {
					require.ErrorIs(t, err, target)
				}
			})
		}
	})

	t.Run("instance failure", func(t *testing.T) {
		t.Parallel()
		instanceErr := errors.New("out of memory")
		compiled := &mockCompiledPlugin{}
		compiled.On("Instance", mock.Anything, mock.Anything).Return(nil, instanceErr)

		_, err := newTestPlugin(t, compiled).NewEngine().
			Eval(t.Context(), "run", platform.Bindings{})
		require.ErrorIs(t, err, instanceErr)
	})

	t.Run("unencodable binding", func(t *testing.T) {
		t.Parallel()
		compiled := &mockCompiledPlugin{}

		_, err := newTestPlugin(t, compiled).NewEngine().
			Eval(t.Context(), "run", platform.Bindings{"fn": func() {}})
		require.ErrorIs(t, err, platform.ErrUnsupportedValue)
		compiled.AssertNotCalled(t, "Instance", mock.Anything, mock.Anything)
	})
}

func TestPlugin(t *testing.T) {
	t.Parallel()

	t.Run("factory builds engines", func(t *testing.T) {
		t.Parallel()
		p := newTestPlugin(t, &mockCompiledPlugin{})

		engine, err := p.Factory()()
		require.NoError(t, err)
		require.IsType(t, &Engine{}, engine)
	})

	t.Run("factory without compiled module", func(t *testing.T) {
		t.Parallel()
		p := newTestPlugin(t, nil)

		_, err := p.Factory()()
		require.ErrorIs(t, err, ErrCompileFailed)
	})

	t.Run("close", func(t *testing.T) {
		t.Parallel()
		compiled := &mockCompiledPlugin{}
		compiled.On("Close", mock.Anything).Return(nil)

		require.NoError(t, newTestPlugin(t, compiled).Close(t.Context()))
		compiled.AssertExpectations(t)
		require.NoError(t, newTestPlugin(t, nil).Close(t.Context()))
	})

	t.Run("invalid options", func(t *testing.T) {
		t.Parallel()
		_, err := newPlugin(WithLogHandler(nil))
		require.Error(t, err)
		_, err = newPlugin(WithRuntimeConfig(nil))
		require.Error(t, err)
		_, err = newPlugin(WithLogger(nil))
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		p, err := newPlugin(WithWASI(false), WithHostFunctions(nil))
		require.NoError(t, err)
		assert.False(t, p.enableWASI)
		assert.NotNil(t, p.runtimeConfig)
		assert.NotNil(t, p.logger)
	})
}

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("nil loader", func(t *testing.T) {
		t.Parallel()
		_, err := Compile(t.Context(), nil)
		require.ErrorIs(t, err, ErrContentNil)
	})

	t.Run("invalid module", func(t *testing.T) {
		t.Parallel()
		l := loader.NewMockLoaderWithContent([]byte("not a wasm module"))
		_, err := Compile(t.Context(), l)
		require.ErrorIs(t, err, ErrCompileFailed)
	})
}
