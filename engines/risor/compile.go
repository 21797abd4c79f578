package risor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	risorCompiler "github.com/risor-io/risor/compiler"
	risorErrors "github.com/risor-io/risor/errz"
	risorParser "github.com/risor-io/risor/parser"
)

// compile parses and compiles the script content into bytecode. Names of the
// globals injected at run time must be passed in options so the compiler
// resolves them.
func compile(
	ctx context.Context,
	source string,
	options ...risorCompiler.Option,
) (*risorCompiler.Code, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrContentNil
	}

	ast, err := risorParser.Parse(ctx, source)
	if err != nil {
		// Create a better-looking error output when there's a syntax error
		errMsg := err.Error()
		var friendlyErr risorErrors.FriendlyError
		if errors.As(err, &friendlyErr) {
			errMsg = friendlyErr.FriendlyErrorMessage()
		}
		return nil, fmt.Errorf("%w: %s", ErrCompileFailed, errMsg)
	}

	bc, err := risorCompiler.Compile(ast, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	if bc.InstructionCount() < 1 {
		return nil, ErrNoInstructions
	}
	return bc, nil
}
