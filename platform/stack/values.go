package stack

// IsContainer reports whether v is one of the host's sequence or set values:
// []any, []string, map[string]struct{} or map[any]struct{}.
func IsContainer(v any) bool {
	switch v.(type) {
	case []any, []string, map[string]struct{}, map[any]struct{}:
		return true
	default:
		return false
	}
}

// Elements returns the members of a container value. The second return is
// false when v is not a container. Set members come back in no particular order.
func Elements(v any) ([]any, bool) {
	switch c := v.(type) {
	case []any:
		return c, true
	case []string:
		out := make([]any, len(c))
		for i, s := range c {
			out[i] = s
		}
		return out, true
	case map[string]struct{}:
		out := make([]any, 0, len(c))
		for k := range c {
			out = append(out, k)
		}
		return out, true
	case map[any]struct{}:
		out := make([]any, 0, len(c))
		for k := range c {
			out = append(out, k)
		}
		return out, true
	default:
		return nil, false
	}
}
