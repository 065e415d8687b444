package vault

import (
	"sort"
	"strings"
)

// Values in an entry form a tree: string keys mapping to string, int64,
// float64, bool, or nested map[string]any leaves. Keys are addressed by
// dot-joined paths ("database.pool.size"). The helpers here are the only
// place path semantics live; everything else works in terms of them.

// Lookup walks a dotted path and returns the value at its end.
func Lookup(data map[string]any, key string) (any, bool) {
	segments := strings.Split(key, ".")
	current := data
	for i, segment := range segments {
		value, ok := current[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Set writes a value at a dotted path, creating intermediate mappings as
// needed. A non-mapping value in the middle of the path is replaced by a
// mapping.
func Set(data map[string]any, key string, value any) {
	segments := strings.Split(key, ".")
	current := data
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// Delete removes the value at a dotted path. It reports whether the key
// was present. Emptied intermediate mappings are kept.
func Delete(data map[string]any, key string) bool {
	segments := strings.Split(key, ".")
	current := data
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	last := segments[len(segments)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}

// Flatten returns a single-level mapping from dot-joined paths to leaf
// values, with keys in lexical order when iterated via sorted keys.
func Flatten(data map[string]any) map[string]any {
	out := map[string]any{}
	flattenInto(out, data, "")
	return out
}

func flattenInto(out map[string]any, data map[string]any, prefix string) {
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(out, nested, full)
			continue
		}
		out[full] = value
	}
}

// DeepCopy clones a mapping, copying nested mappings recursively. Leaf
// values are shared, which is safe because leaves are immutable scalars.
func DeepCopy(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if nested, ok := v.(map[string]any); ok {
			out[k] = DeepCopy(nested)
		} else {
			out[k] = v
		}
	}
	return out
}

// SortedKeys returns the mapping's keys in lexical order.
func SortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
