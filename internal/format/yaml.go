package format

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// YAMLHandler serializes mappings as YAML. Leaf types are preserved.
type YAMLHandler struct{}

// Name returns "yaml".
func (h *YAMLHandler) Name() string { return "yaml" }

// Extension returns ".yaml".
func (h *YAMLHandler) Extension() string { return ".yaml" }

// Load parses YAML text into a mapping. Documents whose top level is not a
// mapping are rejected.
func (h *YAMLHandler) Load(text string) (map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal([]byte(text), &data); err != nil {
		return nil, errors.Wrapf(ErrParse, "yaml: %v", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	normalize(data)
	return data, nil
}

// Dump serializes a mapping to YAML text.
func (h *YAMLHandler) Dump(data map[string]any) (string, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", errors.Wrapf(ErrSerialize, "yaml: %v", err)
	}
	return string(out), nil
}

// Detect reports whether text parses as a YAML mapping. Blank input never
// matches. YAML accepts a superset of several formats, so a positive here
// does not exclude other handlers.
func (h *YAMLHandler) Detect(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	var data map[string]any
	if err := yaml.Unmarshal([]byte(text), &data); err != nil {
		return false
	}
	return len(data) > 0
}
