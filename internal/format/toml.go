package format

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// TOMLHandler serializes mappings as TOML. Leaf types are preserved.
type TOMLHandler struct{}

// Name returns "toml".
func (h *TOMLHandler) Name() string { return "toml" }

// Extension returns ".toml".
func (h *TOMLHandler) Extension() string { return ".toml" }

// Load parses TOML text into a mapping.
func (h *TOMLHandler) Load(text string) (map[string]any, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(text), &data); err != nil {
		return nil, errors.Wrapf(ErrParse, "toml: %v", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	normalize(data)
	return data, nil
}

// Dump serializes a mapping to TOML text.
func (h *TOMLHandler) Dump(data map[string]any) (string, error) {
	out, err := toml.Marshal(data)
	if err != nil {
		return "", errors.Wrapf(ErrSerialize, "toml: %v", err)
	}
	return string(out), nil
}

// Detect reports whether text parses as TOML. Blank input never matches.
func (h *TOMLHandler) Detect(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	var data map[string]any
	return toml.Unmarshal([]byte(text), &data) == nil
}
