package schema

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSchemaFile indicates a schema definition that cannot be parsed
// or is missing the top-level "fields" mapping.
var ErrInvalidSchemaFile = errors.New("invalid schema file")

// fileField is the external schema declaration for one field.
type fileField struct {
	Type        string `yaml:"type" json:"type"`
	Default     any    `yaml:"default" json:"default"`
	Required    bool   `yaml:"required" json:"required"`
	Sensitive   bool   `yaml:"sensitive" json:"sensitive"`
	Description string `yaml:"description" json:"description"`
}

// fileSchema is the external schema document shape:
//
//	fields:
//	  host:
//	    type: string
//	    default: localhost
//	  password:
//	    type: string
//	    sensitive: true
//	    required: true
type fileSchema struct {
	Fields map[string]fileField `yaml:"fields" json:"fields"`
}

// FromFile loads a schema definition from a YAML or JSON file. The format
// is chosen by extension; anything that is not .json is parsed as YAML
// (which also accepts JSON input).
func FromFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading schema file")
	}

	var doc fileSchema
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(ErrInvalidSchemaFile, "%s: %v", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(ErrInvalidSchemaFile, "%s: %v", path, err)
		}
	}

	if doc.Fields == nil {
		return nil, errors.Wrapf(ErrInvalidSchemaFile, "%s: missing top-level \"fields\" mapping", path)
	}

	fields := make(map[string]Field, len(doc.Fields))
	for name, f := range doc.Fields {
		fields[name] = Field{
			Type:        ParseFieldType(f.Type),
			Default:     normalizeDefault(f.Default),
			Required:    f.Required,
			Sensitive:   f.Sensitive,
			Description: f.Description,
		}
	}
	return New(fields), nil
}

// normalizeDefault converts parser-provided defaults into canonical leaf
// types (int64 for integers, float64 for floats).
func normalizeDefault(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
