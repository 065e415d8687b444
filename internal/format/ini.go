package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/ini.v1"
)

// INIHandler serializes mappings as INI files. The structure must be exactly
// two levels: top-level keys are sections, their values are mappings of
// string keys to leaves. Every leaf is written in its textual form, so
// values always load back as strings.
type INIHandler struct{}

// Name returns "ini".
func (h *INIHandler) Name() string { return "ini" }

// Extension returns ".ini".
func (h *INIHandler) Extension() string { return ".ini" }

// Load parses INI text into a two-level mapping. All leaf values are strings.
func (h *INIHandler) Load(text string) (map[string]any, error) {
	f, err := ini.Load([]byte(text))
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "ini: %v", err)
	}

	data := map[string]any{}
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}
		values := map[string]any{}
		for _, key := range section.Keys() {
			values[key.Name()] = key.Value()
		}
		data[section.Name()] = values
	}
	return data, nil
}

// Dump serializes a two-level mapping to INI text. A top-level value that is
// not itself a mapping is rejected with an error naming the offending key.
func (h *INIHandler) Dump(data map[string]any) (string, error) {
	f := ini.Empty()

	for _, name := range sortedKeys(data) {
		values, ok := data[name].(map[string]any)
		if !ok {
			return "", errors.Wrapf(ErrNestedStructure,
				"ini format requires nested structure: section %q contains %T, not a mapping", name, data[name])
		}

		section, err := f.NewSection(name)
		if err != nil {
			return "", errors.Wrapf(ErrSerialize, "ini: section %q: %v", name, err)
		}
		for _, key := range sortedKeys(values) {
			if _, err := section.NewKey(key, leafString(values[key])); err != nil {
				return "", errors.Wrapf(ErrSerialize, "ini: key %q: %v", key, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return "", errors.Wrapf(ErrSerialize, "ini: %v", err)
	}
	return buf.String(), nil
}

// Detect reports whether text parses as INI with at least one named section.
// Keys outside any section do not count, matching the original behavior of
// requiring a section header.
func (h *INIHandler) Detect(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	f, err := ini.Load([]byte(text))
	if err != nil {
		return false
	}
	for _, section := range f.Sections() {
		if section.Name() != ini.DefaultSection {
			return true
		}
	}
	return false
}

// leafString renders a leaf value in its INI textual form.
func leafString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}
