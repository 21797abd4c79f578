package starlark

import (
	"fmt"
	"math/big"
	"net/url"

	"github.com/robbyt/go-polybridge/platform"
	starlarkLib "go.starlark.net/starlark"
)

// toGo converts a Starlark value to a host value.
func toGo(v starlarkLib.Value) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v := v.(type) {
	case starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(v), nil
	case starlarkLib.Int:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		return v.BigInt(), nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return string(v), nil
	case starlarkLib.Bytes:
		return []byte(v), nil
	case *starlarkLib.List:
		list := make([]any, 0, v.Len())
		for i := range v.Len() {
			elem, err := toGo(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element: %w", err)
			}
			list = append(list, elem)
		}
		return list, nil
	case starlarkLib.Tuple:
		list := make([]any, 0, len(v))
		for _, e := range v {
			elem, err := toGo(e)
			if err != nil {
				return nil, fmt.Errorf("failed to convert tuple element: %w", err)
			}
			list = append(list, elem)
		}
		return list, nil
	case *starlarkLib.Set:
		return setToGo(v)
	case *starlarkLib.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			k, val := item[0], item[1]
			kStr, ok := k.(starlarkLib.String)
			if !ok {
				// Host symbols are string keyed, so other keys use their Starlark repr
				kStr = starlarkLib.String(k.String())
			}

			vv, err := toGo(val)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			dict[string(kStr)] = vv
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("%w: starlark type %s", platform.ErrUnsupportedValue, v.Type())
	}
}

// setToGo returns a string set as map[string]struct{}, any other set as a list.
func setToGo(s *starlarkLib.Set) (any, error) {
	elems := make([]any, 0, s.Len())
	allStrings := true

	iter := s.Iterate()
	defer iter.Done()
	var x starlarkLib.Value
	for iter.Next(&x) {
		elem, err := toGo(x)
		if err != nil {
			return nil, fmt.Errorf("failed to convert set element: %w", err)
		}
		if _, ok := elem.(string); !ok {
			allStrings = false
		}
		elems = append(elems, elem)
	}

	if !allStrings {
		return elems, nil
	}
	set := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		set[e.(string)] = struct{}{}
	}
	return set, nil
}

// fromGo converts a host value to a Starlark value.
func fromGo(v any) (starlarkLib.Value, error) {
	if v == nil {
		return starlarkLib.None, nil
	}

	switch val := v.(type) {
	case starlarkLib.Value:
		return val, nil
	case bool:
		return starlarkLib.Bool(val), nil
	case int:
		return starlarkLib.MakeInt(val), nil
	case int8:
		return starlarkLib.MakeInt64(int64(val)), nil
	case int16:
		return starlarkLib.MakeInt64(int64(val)), nil
	case int32:
		return starlarkLib.MakeInt64(int64(val)), nil
	case int64:
		return starlarkLib.MakeInt64(val), nil
	case uint:
		return starlarkLib.MakeUint(val), nil
	case uint8:
		return starlarkLib.MakeUint64(uint64(val)), nil
	case uint16:
		return starlarkLib.MakeUint64(uint64(val)), nil
	case uint32:
		return starlarkLib.MakeUint64(uint64(val)), nil
	case uint64:
		return starlarkLib.MakeUint64(val), nil
	case *big.Int:
		return starlarkLib.MakeBigInt(val), nil
	case float32:
		return starlarkLib.Float(val), nil
	case float64:
		return starlarkLib.Float(val), nil
	case string:
		return starlarkLib.String(val), nil
	case []byte:
		return starlarkLib.Bytes(val), nil
	case *url.URL:
		return starlarkLib.String(val.String()), nil
	case []string:
		elements := make([]starlarkLib.Value, len(val))
		for i, s := range val {
			elements[i] = starlarkLib.String(s)
		}
		return starlarkLib.NewList(elements), nil
	case []any:
		elements := make([]starlarkLib.Value, len(val))
		for i, elem := range val {
			var err error
			elements[i], err = fromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element: %w", err)
			}
		}
		return starlarkLib.NewList(elements), nil
	case map[string]struct{}:
		// golang doesn't have a Set, but often a map[string]struct{} is used instead
		elements := starlarkLib.NewSet(len(val))
		for k := range val {
			if err := elements.Insert(starlarkLib.String(k)); err != nil {
				return nil, fmt.Errorf("failed to insert set element: %w", err)
			}
		}
		return elements, nil
	case map[any]struct{}:
		elements := starlarkLib.NewSet(len(val))
		for k := range val {
			sv, err := fromGo(k)
			if err != nil {
				return nil, fmt.Errorf("failed to convert set element: %w", err)
			}
			if err := elements.Insert(sv); err != nil {
				return nil, fmt.Errorf("failed to insert set element: %w", err)
			}
		}
		return elements, nil
	case map[string]string:
		dict := starlarkLib.NewDict(len(val))
		for k, v := range val {
			if err := dict.SetKey(starlarkLib.String(k), starlarkLib.String(v)); err != nil {
				return nil, fmt.Errorf("failed to set dict key: %w", err)
			}
		}
		return dict, nil
	case map[string][]string:
		// header-style maps, e.g. url.Values or http.Header
		dict := starlarkLib.NewDict(len(val))
		for k, v := range val {
			elements := make([]starlarkLib.Value, len(v))
			for i, s := range v {
				elements[i] = starlarkLib.String(s)
			}
			if err := dict.SetKey(starlarkLib.String(k), starlarkLib.NewList(elements)); err != nil {
				return nil, fmt.Errorf("failed to set dict key: %w", err)
			}
		}
		return dict, nil
	case map[string]any:
		dict := starlarkLib.NewDict(len(val))
		for k, v := range val {
			starlarkVal, err := fromGo(v)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			if err := dict.SetKey(starlarkLib.String(k), starlarkVal); err != nil {
				return nil, fmt.Errorf("failed to set dict key: %w", err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("%w: %T", platform.ErrUnsupportedValue, v)
	}
}
