package query

import "fmt"

// Preserve says which parameters of the current URL are carried over into a
// newly computed href. The zero value preserves nothing.
type Preserve struct {
	All  bool
	Keys []string
}

// PreserveAll carries every parameter over.
func PreserveAll() Preserve { return Preserve{All: true} }

// PreserveNone carries nothing over.
func PreserveNone() Preserve { return Preserve{} }

// PreserveKeys carries the named parameters over, in the given order.
func PreserveKeys(keys ...string) Preserve { return Preserve{Keys: keys} }

// IsZero reports whether p preserves nothing.
func (p Preserve) IsZero() bool {
	return !p.All && len(p.Keys) == 0
}

// PreserveFrom converts the loose form used by configuration files and the
// playground: nil or false, true, a key, or a list of keys.
func PreserveFrom(v any) (Preserve, error) {
	switch x := v.(type) {
	case nil:
		return PreserveNone(), nil
	case Preserve:
		return x, nil
	case bool:
		if x {
			return PreserveAll(), nil
		}
		return PreserveNone(), nil
	case string:
		if x == "" {
			return PreserveNone(), nil
		}
		return PreserveKeys(x), nil
	case []string:
		return PreserveKeys(x...), nil
	case []any:
		keys := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return Preserve{}, fmt.Errorf("query: preserve list item has type %T, want string", item)
			}
			keys = append(keys, s)
		}
		return PreserveKeys(keys...), nil
	default:
		return Preserve{}, fmt.Errorf("query: unsupported preserve value of type %T", v)
	}
}

// Merge appends every pair of b to a copy of a. Duplicates are kept.
func Merge(a, b Params) Params {
	if len(b) == 0 {
		return a.Clone()
	}
	out := make(Params, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// MergePreserved appends the parameters of current selected by p to a copy
// of existing. Every value of a selected key is transferred.
func MergePreserved(existing, current Params, p Preserve) Params {
	if p.IsZero() || len(current) == 0 {
		return existing.Clone()
	}
	if p.All {
		return Merge(existing, current)
	}
	out := existing.Clone()
	for _, key := range p.Keys {
		for _, v := range current.GetAll(key) {
			out = out.Append(key, v)
		}
	}
	return out
}
