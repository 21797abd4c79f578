package extism

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"

	extismSDK "github.com/extism/go-sdk"
	"github.com/robbyt/go-polybridge/platform"
	"github.com/tetratelabs/wazero"
)

// Engine calls one export per Eval on a fresh plugin instance.
// It implements platform.Engine.
type Engine struct {
	plugin CompiledPlugin
	logger *slog.Logger
}

func (e *Engine) String() string {
	return "extism.Engine"
}

// NewBindings returns an empty bindings map.
func (e *Engine) NewBindings() (platform.Bindings, error) {
	return make(platform.Bindings), nil
}

// Eval calls the export named by source with the bindings encoded as a JSON
// object. Object output is merged back into the bindings.
func (e *Engine) Eval(
	ctx context.Context,
	source string,
	bindings platform.Bindings,
) (any, error) {
	logger := e.logger.WithGroup("Eval")

	entryPoint := strings.TrimSpace(source)
	if entryPoint == "" {
		return nil, fmt.Errorf("%w: %w", platform.ErrEvaluation, ErrEntryPointEmpty)
	}

	input, err := marshalInput(bindings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrUnsupportedValue, err)
	}

	instance, err := e.plugin.Instance(ctx, newInstanceConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create plugin instance: %w", err)
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			logger.WarnContext(ctx, "failed to close plugin instance", "error", err)
		}
	}()

	if !instance.FunctionExists(entryPoint) {
		return nil, fmt.Errorf("%w: %w: %s", platform.ErrEvaluation, ErrEntryPoint, entryPoint)
	}

	startTime := time.Now()
	exit, output, err := instance.CallWithContext(ctx, entryPoint, input)
	logger.DebugContext(ctx, "call complete",
		"entryPoint", entryPoint, "exit", exit, "execTime", time.Since(startTime))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", platform.ErrEvaluation, entryPoint, err)
	}
	if exit != 0 {
		return nil, fmt.Errorf("%w: %w: %d", platform.ErrEvaluation, ErrNonZeroExit, exit)
	}

	result := decodeOutput(output)
	if m, ok := result.(map[string]any); ok {
		for k, v := range m {
			bindings[k] = v
		}
	}
	return result, nil
}

func newInstanceConfig() extismSDK.PluginInstanceConfig {
	return extismSDK.PluginInstanceConfig{
		ModuleConfig: wazero.NewModuleConfig().
			WithSysWalltime().
			WithSysNanotime().
			WithRandSource(rand.Reader),
	}
}
