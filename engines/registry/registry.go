// Package registry is a name-keyed platform.Provider: engines are registered
// under one or more language names and a new engine is built on every Resolve.
package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/robbyt/go-polybridge/engines/types"
	"github.com/robbyt/go-polybridge/internal/helpers"
	"github.com/robbyt/go-polybridge/platform"
)

// Factory builds a new engine instance.
type Factory func() (platform.Engine, error)

// Registry maps language names to engine factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an empty registry.
func New(handler slog.Handler) *Registry {
	handler, logger := helpers.SetupLogger(handler, "registry", "Registry")
	return &Registry{
		factories:  make(map[string]Factory),
		logHandler: handler,
		logger:     logger,
	}
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry.Registry{Languages: %v}", r.Languages())
}

// Register adds a factory under every given name. Names are matched
// case-insensitively; registering a name twice is an error and leaves the
// registry unchanged.
func (r *Registry) Register(factory Factory, names ...string) error {
	if factory == nil {
		return fmt.Errorf("%w: factory is nil", ErrInvalidRegistration)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one name is required", ErrInvalidRegistration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(names))
	for _, name := range names {
		key := types.Normalize(name)
		if key == "" {
			return fmt.Errorf("%w: name is empty", ErrInvalidRegistration)
		}
		if _, exists := r.factories[key]; exists || slices.Contains(keys, key) {
			return fmt.Errorf("%w: %s", ErrDuplicateLanguage, key)
		}
		keys = append(keys, key)
	}

	for _, key := range keys {
		r.factories[key] = factory
	}
	r.logger.Debug("engine registered", "names", keys)
	return nil
}

// Resolve implements platform.Provider.
func (r *Registry) Resolve(language string) (platform.Engine, error) {
	key := types.Normalize(language)

	r.mu.RLock()
	factory, ok := r.factories[key]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", platform.ErrEngineNotFound, language)
	}

	engine, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s engine: %w", key, err)
	}
	return engine, nil
}

// Languages returns every registered name in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}
