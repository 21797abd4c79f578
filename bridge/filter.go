package bridge

import "github.com/robbyt/go-polybridge/platform/stack"

// nameFilter selects symbol names. The zero value lets every name through.
type nameFilter struct {
	names      map[string]struct{}
	restricted bool
}

// newNameFilter builds a filter from a host container. An empty container
// places no restriction. Non-string members never match a name but still make
// the filter restrictive.
func newNameFilter(container any) nameFilter {
	elems, _ := stack.Elements(container)
	if len(elems) == 0 {
		return nameFilter{}
	}

	names := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		if name, ok := e.(string); ok {
			names[name] = struct{}{}
		}
	}
	return nameFilter{names: names, restricted: true}
}

func (f nameFilter) allows(name string) bool {
	if !f.restricted {
		return true
	}
	_, ok := f.names[name]
	return ok
}

// copyInto writes every entry of src that passes the filter into dst and
// returns how many entries were copied.
func (f nameFilter) copyInto(dst, src map[string]any) int {
	n := 0
	for k, v := range src {
		if f.allows(k) {
			dst[k] = v
			n++
		}
	}
	return n
}
