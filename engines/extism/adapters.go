// The adapters for the Extism SDK types are defined here (CompiledPlugin and
// Plugin), allowing the engine to work with local interfaces instead of the
// SDK's concrete types. This makes mocking possible for tests.
package extism

import (
	"context"

	extismSDK "github.com/extism/go-sdk"
)

// CompiledPlugin is the subset of extismSDK.CompiledPlugin the engine uses
type CompiledPlugin interface {
	Instance(ctx context.Context, config extismSDK.PluginInstanceConfig) (PluginInstance, error)
	Close(ctx context.Context) error
}

// PluginInstance is the subset of extismSDK.Plugin the engine uses
type PluginInstance interface {
	CallWithContext(ctx context.Context, name string, data []byte) (uint32, []byte, error)
	FunctionExists(name string) bool
	Close(ctx context.Context) error
}

// sdkCompiledPlugin adapts extismSDK.CompiledPlugin to our CompiledPlugin interface
type sdkCompiledPlugin struct {
	plugin *extismSDK.CompiledPlugin
}

// newCompiledPluginAdapter creates a new adapter for extismSDK.CompiledPlugin
func newCompiledPluginAdapter(plugin *extismSDK.CompiledPlugin) CompiledPlugin {
	if plugin == nil {
		return nil
	}
	return &sdkCompiledPlugin{plugin: plugin}
}

// Instance creates a new instance of the plugin
func (a *sdkCompiledPlugin) Instance(
	ctx context.Context,
	config extismSDK.PluginInstanceConfig,
) (PluginInstance, error) {
	instance, err := a.plugin.Instance(ctx, config)
	if err != nil {
		return nil, err
	}
	return &sdkPluginAdapter{instance: instance}, nil
}

// Close releases resources associated with the plugin
func (a *sdkCompiledPlugin) Close(ctx context.Context) error {
	return a.plugin.Close(ctx)
}

// sdkPluginAdapter adapts the Extism plugin instance to our PluginInstance interface
type sdkPluginAdapter struct {
	instance *extismSDK.Plugin
}

// CallWithContext calls a function in the plugin
func (a *sdkPluginAdapter) CallWithContext(
	ctx context.Context,
	name string,
	data []byte,
) (uint32, []byte, error) {
	return a.instance.CallWithContext(ctx, name, data)
}

// FunctionExists checks if a function exists in the plugin
func (a *sdkPluginAdapter) FunctionExists(name string) bool {
	return a.instance.FunctionExists(name)
}

// Close releases resources associated with the instance
func (a *sdkPluginAdapter) Close(ctx context.Context) error {
	return a.instance.Close(ctx)
}
