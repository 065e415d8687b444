package vault

import (
	"github.com/thoreinstein/vaultconfig/internal/obscure"
)

// Entry is one named configuration mapping together with the set of
// dot-joined field paths tracked as sensitive for it.
type Entry struct {
	name      string
	data      map[string]any
	sensitive map[string]struct{}
}

// NewEntry creates an entry over the given data. sensitiveFields is the
// set of dot-joined paths eligible for obfuscation and reveal.
func NewEntry(name string, data map[string]any, sensitiveFields []string) *Entry {
	sensitive := make(map[string]struct{}, len(sensitiveFields))
	for _, f := range sensitiveFields {
		sensitive[f] = struct{}{}
	}
	return &Entry{
		name:      name,
		data:      data,
		sensitive: sensitive,
	}
}

// Name returns the entry name (the filename stem of its backing file).
func (e *Entry) Name() string { return e.name }

// Get reads a value by dotted path. String values at paths tracked as
// sensitive are revealed; a value that fails to reveal is returned as-is,
// since the sensitive-field set is only advisory about what is actually
// obscured.
//
// Note the deliberate asymmetry with GetAll: Get consults only the tracked
// set, never the content heuristic, so an obscured value at an untracked
// path comes back obscured.
func (e *Entry) Get(key string) (any, bool) {
	value, ok := Lookup(e.data, key)
	if !ok {
		return nil, false
	}

	if s, isString := value.(string); isString {
		if _, tracked := e.sensitive[key]; tracked {
			if revealed, err := obscure.Reveal(s); err == nil {
				return revealed, true
			}
			return s, true
		}
	}
	return value, true
}

// GetAll returns a copy of the entry's data. With revealSecrets set, every
// string leaf that is either tracked as sensitive or looks obscured (per
// the obscure.IsObscured heuristic) is revealed; values that fail to
// reveal pass through unchanged rather than failing the whole read.
func (e *Entry) GetAll(revealSecrets bool) map[string]any {
	out := DeepCopy(e.data)
	if revealSecrets {
		e.revealTree(out, "")
	}
	return out
}

// SensitiveFields returns the tracked sensitive paths, unordered.
func (e *Entry) SensitiveFields() []string {
	fields := make([]string, 0, len(e.sensitive))
	for f := range e.sensitive {
		fields = append(fields, f)
	}
	return fields
}

// revealTree reveals string leaves in place, recursing into nested
// mappings with dot-joined path tracking.
func (e *Entry) revealTree(data map[string]any, prefix string) {
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]any:
			e.revealTree(v, full)
		case string:
			_, tracked := e.sensitive[full]
			if !tracked && !obscure.IsObscured(v) {
				continue
			}
			if revealed, err := obscure.Reveal(v); err == nil {
				data[key] = revealed
			}
		}
	}
}
