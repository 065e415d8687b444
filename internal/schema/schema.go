// Package schema provides field declarations for config entries: expected
// type, default value, required flag, and sensitivity.
//
// Validation is additive: declared fields are checked and defaulted, while
// fields present in the data but absent from the schema pass through
// unchanged. Sensitive field paths drive obfuscation-on-write and
// reveal-on-read in the vault package.
package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// FieldType enumerates the value types a schema can declare.
type FieldType int

const (
	// TypeString declares a string field. Unrecognized type names fall
	// back to TypeString.
	TypeString FieldType = iota
	// TypeInt declares an integer field.
	TypeInt
	// TypeFloat declares a floating point field.
	TypeFloat
	// TypeBool declares a boolean field.
	TypeBool
)

// String returns the canonical name of the field type.
func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "string"
	}
}

// ParseFieldType maps a type name from an external schema definition to a
// FieldType. Both short and long spellings are accepted; unknown names
// default to TypeString.
func ParseFieldType(name string) FieldType {
	switch strings.ToLower(name) {
	case "int", "integer":
		return TypeInt
	case "float", "number", "double":
		return TypeFloat
	case "bool", "boolean":
		return TypeBool
	default:
		return TypeString
	}
}

// Field declares one config field.
type Field struct {
	// Type is the expected value type.
	Type FieldType

	// Default is injected when an optional field is absent. Ignored for
	// required fields.
	Default any

	// Required marks the field as mandatory: validation fails when it is
	// absent.
	Required bool

	// Sensitive marks the field's value for obfuscation on write and
	// reveal on read.
	Sensitive bool

	// Description documents the field for interactive and help output.
	Description string
}

// Validation errors.
var (
	// ErrMissingField indicates a required field is absent.
	ErrMissingField = errors.New("required field is missing")

	// ErrInvalidType indicates a value that cannot be coerced to the
	// declared type.
	ErrInvalidType = errors.New("invalid field type")
)

// Schema declares the fields of a config entry. Field names may be dotted
// paths addressing nested mappings.
type Schema struct {
	Fields map[string]Field
}

// New creates a Schema over the given field declarations.
func New(fields map[string]Field) *Schema {
	return &Schema{Fields: fields}
}

// Validate checks data against the schema and returns a new mapping:
// required fields must be present, absent optional fields receive their
// declared defaults, and present values are coerced to the declared type.
// Undeclared fields pass through unchanged. The input mapping is not
// modified.
func (s *Schema) Validate(data map[string]any) (map[string]any, error) {
	out := deepCopy(data)

	for _, name := range s.fieldNames() {
		field := s.Fields[name]
		path := strings.Split(name, ".")

		value, present := pathGet(out, path)
		if !present {
			if field.Required {
				return nil, errors.Wrapf(ErrMissingField, "%q", name)
			}
			if field.Default != nil {
				pathSet(out, path, field.Default)
			}
			continue
		}

		coerced, err := coerce(value, field.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", name)
		}
		pathSet(out, path, coerced)
	}

	return out, nil
}

// SensitiveFields returns the dot-joined paths of all sensitive fields in
// lexical order.
func (s *Schema) SensitiveFields() []string {
	var paths []string
	for name, field := range s.Fields {
		if field.Sensitive {
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)
	return paths
}

// fieldNames returns declared field names in lexical order, for
// deterministic validation output.
func (s *Schema) fieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// coerce converts value to the declared type, or reports ErrInvalidType.
func coerce(value any, t FieldType) (any, error) {
	switch t {
	case TypeString:
		switch v := value.(type) {
		case string:
			return v, nil
		case bool, int64, float64, int:
			return fmt.Sprint(v), nil
		}
	case TypeInt:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case float64:
			if v == float64(int64(v)) {
				return int64(v), nil
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, nil
			}
		}
	case TypeFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, nil
			}
		}
	case TypeBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes", "1":
				return true, nil
			case "false", "no", "0":
				return false, nil
			}
		case int64:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
		}
	}
	return nil, errors.Wrapf(ErrInvalidType, "cannot use %T value as %s", value, t)
}

// pathGet walks a dotted path through nested mappings.
func pathGet(data map[string]any, path []string) (any, bool) {
	current := data
	for i, segment := range path {
		value, ok := current[segment]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
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

// pathSet writes a value at a dotted path, creating intermediate mappings.
func pathSet(data map[string]any, path []string, value any) {
	current := data
	for _, segment := range path[:len(path)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	current[path[len(path)-1]] = value
}

// deepCopy clones a mapping, copying nested mappings recursively. Leaf
// values are shared.
func deepCopy(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
		} else {
			out[k] = v
		}
	}
	return out
}
