// Package format provides pluggable serialization between config mappings
// and text, with best-effort content detection.
//
// A mapping is a map[string]any whose leaves are strings, integers (int64),
// floats (float64), booleans, or nested mappings. Handlers that preserve
// leaf types guarantee Load(Dump(m)) == m for such mappings; the INI handler
// stringifies every leaf on Dump, so round-trips compare equal only after
// normalizing expected leaves to strings.
package format

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for format operations.
var (
	// ErrUnsupportedFormat indicates an unknown format name.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrParse indicates the input text could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrSerialize indicates the mapping could not be serialized.
	ErrSerialize = errors.New("serialize error")

	// ErrNestedStructure indicates a top-level value that must be a mapping
	// is not one (INI requires a two-level section/key structure).
	ErrNestedStructure = errors.New("nested structure required")
)

// Handler is a bidirectional mapping<->text serializer for one format.
type Handler interface {
	// Name returns the format name ("toml", "ini", "yaml").
	Name() string

	// Extension returns the file extension including the dot.
	Extension() string

	// Load parses text into a mapping. Failures wrap ErrParse and carry the
	// underlying parser diagnostic.
	Load(text string) (map[string]any, error)

	// Dump serializes a mapping to text.
	Dump(data map[string]any) (string, error)

	// Detect reports whether text looks like this format. It is a
	// best-effort parse-and-check heuristic: blank input is never a match,
	// and the same text may match more than one format.
	Detect(text string) bool
}

// handlers holds the registered formats in detection order.
var handlers = []Handler{
	&TOMLHandler{},
	&INIHandler{},
	&YAMLHandler{},
}

// Get returns the handler for the given format name.
func Get(name string) (Handler, error) {
	for _, h := range handlers {
		if h.Name() == name {
			return h, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%q (supported: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the registered format names in detection order.
func Names() []string {
	names := make([]string, len(handlers))
	for i, h := range handlers {
		names[i] = h.Name()
	}
	return names
}

// ByExtension returns the handler matching a file extension (with or
// without the leading dot). ".yml" is accepted as an alias for yaml.
func ByExtension(ext string) (Handler, error) {
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	if ext == ".yml" {
		ext = ".yaml"
	}
	for _, h := range handlers {
		if h.Extension() == ext {
			return h, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
}

// DetectHandler returns the first handler whose Detect accepts the text,
// or nil if none match. Detection order is toml, ini, yaml.
func DetectHandler(text string) Handler {
	for _, h := range handlers {
		if h.Detect(text) {
			return h
		}
	}
	return nil
}

// normalize converts parser-specific value types into the canonical mapping
// leaf types: int64 for integers, float64 for floats, map[string]any for
// nested mappings, []any for sequences.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalize(val)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			if ks, ok := k.(string); ok {
				m[ks] = normalize(val)
			}
		}
		return m
	case []any:
		for i, val := range x {
			x[i] = normalize(val)
		}
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// sortedKeys returns the mapping's keys in lexical order, for deterministic
// serialization of formats whose writer preserves insertion order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
