package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/robbyt/go-polybridge"
	"github.com/robbyt/go-polybridge/bridge"
	"github.com/robbyt/go-polybridge/engines/registry"
	"github.com/robbyt/go-polybridge/engines/types"
	"github.com/robbyt/go-polybridge/internal/helpers"
	"github.com/robbyt/go-polybridge/platform"
	"github.com/robbyt/go-polybridge/platform/script/loader"
	"github.com/robbyt/go-polybridge/platform/stack"
	"github.com/spf13/cobra"
)

var errNoScript = errors.New("a script argument or --file is required")

type runFlags struct {
	language string
	name     string
	file     string
	wasm     string
	vars     []string
	in       []string
	out      []string
	watch    bool
}

// output is the state printed after a run.
type output struct {
	Stack   []any          `json:"stack"`
	Symbols map[string]any `json:"symbols"`
}

func newRunCommand(global *globalFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run one bridge invocation and print the stack and symbol table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args, global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.language, "lang", "l", types.Starlark.String(), "Script language")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Operation name (default: upper-cased language)")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read the script from a file")
	cmd.Flags().StringVar(&flags.wasm, "wasm", "", "WebAssembly module for the wasm language")
	cmd.Flags().StringArrayVar(&flags.vars, "var", nil, "Set a variable as key=value (value parsed as JSON)")
	cmd.Flags().StringSliceVar(&flags.in, "in", nil, "Variables copied into the script")
	cmd.Flags().StringSliceVar(&flags.out, "out", nil, "Variables copied back from the script")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Run again whenever --file changes")
	return cmd
}

func runScript(cmd *cobra.Command, args []string, global *globalFlags, flags *runFlags) error {
	ctx := cmd.Context()
	handler := global.handler(cmd)

	if flags.watch && flags.file == "" {
		return fmt.Errorf("--watch requires --file")
	}

	symbols, err := parseVars(flags.vars)
	if err != nil {
		return err
	}

	name := flags.name
	if name == "" {
		name = strings.ToUpper(types.Normalize(flags.language))
	}

	var op *bridge.Bridge
	if types.Normalize(flags.language) == types.Extism.String() {
		if flags.wasm == "" {
			return fmt.Errorf("--wasm is required for language %q", flags.language)
		}
		l, err := loader.NewFromPath(flags.wasm)
		if err != nil {
			return err
		}
		b, plugin, err := polybridge.NewExtismBridge(ctx, name, l, polybridge.WithLogHandler(handler))
		if err != nil {
			return err
		}
		defer func() { _ = plugin.Close(ctx) }()
		op = b
	} else {
		op, err = polybridge.NewBridge(name, flags.language, polybridge.WithLogHandler(handler))
		if err != nil {
			return err
		}
	}

	functions := stack.NewFunctions()
	if err := polybridge.Register(functions, op); err != nil {
		return err
	}

	once := func() error {
		script, err := readScript(args, flags.file)
		if err != nil {
			return err
		}
		err = invoke(cmd, functions, name, script, symbols, flags)
		if errors.Is(err, platform.ErrEngineNotFound) {
			if match := closestLanguage(flags.language, handler); match != "" {
				return fmt.Errorf("%w (did you mean %q?)", err, match)
			}
		}
		return err
	}

	if !flags.watch {
		return once()
	}
	return watchFile(ctx, flags.file, slog.New(handler).WithGroup("watch"), once)
}

// invoke runs the operation once on a fresh stack and prints the result.
func invoke(
	cmd *cobra.Command,
	functions *stack.Functions,
	name, script string,
	symbols map[string]any,
	flags *runFlags,
) error {
	s := stack.New(script)
	for k, v := range symbols {
		s.Store(k, v)
	}
	if cmd.Flags().Changed("in") || cmd.Flags().Changed("out") {
		s.Push(toList(flags.in))
	}
	if cmd.Flags().Changed("out") {
		s.Push(toList(flags.out))
	}

	if _, err := functions.Call(cmd.Context(), name, s); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output{Stack: s.Items(), Symbols: s.SymbolTable()})
}

// closestLanguage suggests a registered language for a misspelled one.
func closestLanguage(language string, handler slog.Handler) string {
	reg, err := registry.NewDefault(handler)
	if err != nil {
		return ""
	}
	candidates := append(reg.Languages(), types.Extism.String())

	ranks := fuzzy.RankFindFold(types.Normalize(language), candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func readScript(args []string, file string) (string, error) {
	var (
		l   loader.Loader
		err error
	)
	switch {
	case len(args) == 1 && file != "":
		return "", fmt.Errorf("pass either a script argument or --file, not both")
	case len(args) == 1:
		l, err = loader.NewFromString(args[0])
	case file != "":
		l, err = loader.NewFromPath(file)
	default:
		return "", errNoScript
	}
	if err != nil {
		return "", err
	}

	content, err := loader.ReadAll(l)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// parseVars turns key=value pairs into symbols. Values are decoded as JSON
// when possible and kept as strings otherwise.
func parseVars(pairs []string) (map[string]any, error) {
	symbols := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: expected key=value", pair)
		}
		symbols[key] = parseValue(raw)
	}
	return symbols, nil
}

func parseValue(raw string) any {
	if v, ok := helpers.DecodeJSON([]byte(raw)); ok {
		return v
	}
	return raw
}

func toList(names []string) []any {
	list := make([]any, 0, len(names))
	for _, name := range names {
		list = append(list, name)
	}
	return list
}
