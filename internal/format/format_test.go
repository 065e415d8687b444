package format

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// sample is a depth-3 mapping exercising every leaf type.
func sample() map[string]any {
	return map[string]any{
		"name":    "test-app",
		"port":    int64(8080),
		"ratio":   0.75,
		"debug":   true,
		"comment": "value with spaces",
		"database": map[string]any{
			"host": "localhost",
			"port": int64(5432),
			"pool": map[string]any{
				"size": int64(10),
			},
		},
	}
}

func TestRoundTripTypePreserving(t *testing.T) {
	for _, name := range []string{"toml", "yaml"} {
		t.Run(name, func(t *testing.T) {
			h, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", name, err)
			}

			want := sample()
			text, err := h.Dump(want)
			if err != nil {
				t.Fatalf("Dump() error = %v", err)
			}
			got, err := h.Load(text)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch\ngot:  %#v\nwant: %#v", got, want)
			}
		})
	}
}

func TestINIRoundTripStringifies(t *testing.T) {
	h := &INIHandler{}

	in := map[string]any{
		"server": map[string]any{
			"host":  "localhost",
			"port":  int64(8080),
			"ratio": 0.5,
			"debug": true,
		},
	}
	want := map[string]any{
		"server": map[string]any{
			"host":  "localhost",
			"port":  "8080",
			"ratio": "0.5",
			"debug": "true",
		},
	}

	text, err := h.Dump(in)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	got, err := h.Load(text)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestINIDumpRequiresNestedStructure(t *testing.T) {
	h := &INIHandler{}

	_, err := h.Dump(map[string]any{"top": "not-a-mapping"})
	if err == nil {
		t.Fatal("Dump() should fail for flat top-level values")
	}
	if !errors.Is(err, ErrNestedStructure) {
		t.Errorf("error should wrap ErrNestedStructure, got %v", err)
	}
	if !strings.Contains(err.Error(), "nested structure") {
		t.Errorf("error message should mention nested structure, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "top") {
		t.Errorf("error message should name the offending key, got %q", err.Error())
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		handler Handler
		text    string
	}{
		{&TOMLHandler{}, "this is not = = valid toml [["},
		{&YAMLHandler{}, "just a scalar"},
		{&YAMLHandler{}, "key: value\n  bad indent: [unclosed"},
		{&INIHandler{}, "no delimiter here\n"},
	}

	for _, tt := range tests {
		t.Run(tt.handler.Name(), func(t *testing.T) {
			_, err := tt.handler.Load(tt.text)
			if err == nil {
				t.Fatalf("Load(%q) should fail", tt.text)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error should wrap ErrParse, got %v", err)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		handler Handler
		text    string
		want    bool
	}{
		{"toml valid", &TOMLHandler{}, "key = \"value\"\n[section]\nport = 1\n", true},
		{"toml invalid", &TOMLHandler{}, "key: value\nnested:\n  a: 1\n", false},
		{"ini valid", &INIHandler{}, "[section]\nkey = value\n", true},
		{"ini no section", &INIHandler{}, "key = value\n", false},
		{"yaml valid", &YAMLHandler{}, "key: value\nnested:\n  a: 1\n", true},
		{"yaml scalar", &YAMLHandler{}, "just text that is one scalar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.handler.Detect(tt.text); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectBlankInput(t *testing.T) {
	for _, h := range []Handler{&TOMLHandler{}, &INIHandler{}, &YAMLHandler{}} {
		for _, text := range []string{"", "   ", "\n\n\t\n"} {
			if h.Detect(text) {
				t.Errorf("%s.Detect(%q) = true, want false", h.Name(), text)
			}
		}
	}
}

func TestDetectNotExclusive(t *testing.T) {
	// A section header with an unquoted value is both valid INI and valid
	// TOML-ish enough for multiple handlers to claim some inputs; the
	// contract only promises at least one match for each format's own dump.
	text := "[server]\nhost = \"localhost\"\n"
	ini := (&INIHandler{}).Detect(text)
	toml := (&TOMLHandler{}).Detect(text)
	if !ini || !toml {
		t.Errorf("expected both ini (%v) and toml (%v) to detect %q", ini, toml, text)
	}
}

func TestDetectHandler(t *testing.T) {
	h := DetectHandler("key = \"value\"\n")
	if h == nil || h.Name() != "toml" {
		t.Errorf("DetectHandler() = %v, want toml", h)
	}

	if h := DetectHandler("  \n "); h != nil {
		t.Errorf("DetectHandler(blank) = %v, want nil", h)
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"toml", "ini", "yaml"} {
		h, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", name, err)
		}
		if h.Name() != name {
			t.Errorf("Get(%q).Name() = %q", name, h.Name())
		}
	}

	_, err := Get("json5")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Get(json5) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestByExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".toml", "toml"},
		{"toml", "toml"},
		{".ini", "ini"},
		{".yaml", "yaml"},
		{".yml", "yaml"},
	}
	for _, tt := range tests {
		h, err := ByExtension(tt.ext)
		if err != nil {
			t.Fatalf("ByExtension(%q) error = %v", tt.ext, err)
		}
		if h.Name() != tt.want {
			t.Errorf("ByExtension(%q) = %q, want %q", tt.ext, h.Name(), tt.want)
		}
	}

	if _, err := ByExtension(".conf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ByExtension(.conf) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEmptyDocumentLoads(t *testing.T) {
	for _, h := range []Handler{&TOMLHandler{}, &YAMLHandler{}} {
		got, err := h.Load("")
		if err != nil {
			t.Errorf("%s.Load(empty) error = %v", h.Name(), err)
			continue
		}
		if len(got) != 0 {
			t.Errorf("%s.Load(empty) = %v, want empty map", h.Name(), got)
		}
	}
}
