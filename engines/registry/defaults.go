package registry

import (
	"log/slog"

	"github.com/robbyt/go-polybridge/engines/risor"
	"github.com/robbyt/go-polybridge/engines/starlark"
	"github.com/robbyt/go-polybridge/engines/types"
	"github.com/robbyt/go-polybridge/platform"
)

// NewDefault creates a registry with the Starlark and Risor engines registered.
// WebAssembly engines need a compiled module and are registered by the caller.
func NewDefault(handler slog.Handler) (*Registry, error) {
	r := New(handler)

	starlarkFactory := func() (platform.Engine, error) {
		e, err := starlark.New(starlark.WithLogHandler(r.logHandler))
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	if err := r.Register(starlarkFactory, types.Starlark.String(), "star"); err != nil {
		return nil, err
	}

	risorFactory := func() (platform.Engine, error) {
		e, err := risor.New(risor.WithLogHandler(r.logHandler))
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	if err := r.Register(risorFactory, types.Risor.String()); err != nil {
		return nil, err
	}

	return r, nil
}
