package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func testSchema() *Schema {
	return New(map[string]Field{
		"host":     {Type: TypeString, Default: "localhost"},
		"port":     {Type: TypeInt, Default: int64(5432)},
		"timeout":  {Type: TypeFloat, Default: 30.0},
		"verbose":  {Type: TypeBool, Default: false},
		"password": {Type: TypeString, Required: true, Sensitive: true},
	})
}

func TestValidateFillsDefaults(t *testing.T) {
	got, err := testSchema().Validate(map[string]any{"password": "secret"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := map[string]any{
		"host":     "localhost",
		"port":     int64(5432),
		"timeout":  30.0,
		"verbose":  false,
		"password": "secret",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %#v, want %#v", got, want)
	}
}

func TestValidateMissingRequired(t *testing.T) {
	_, err := testSchema().Validate(map[string]any{"host": "db.example.com"})
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("Validate() error = %v, want ErrMissingField", err)
	}
	if got := err.Error(); !strings.Contains(got, "password") {
		t.Errorf("error %q should name the missing field", got)
	}
}

func TestValidateCoercion(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		value   any
		want    any
		wantErr bool
	}{
		{name: "int from string", field: Field{Type: TypeInt}, value: "42", want: int64(42)},
		{name: "int from integral float", field: Field{Type: TypeInt}, value: 42.0, want: int64(42)},
		{name: "int from fractional float", field: Field{Type: TypeInt}, value: 42.5, wantErr: true},
		{name: "int from word", field: Field{Type: TypeInt}, value: "forty-two", wantErr: true},
		{name: "float from int", field: Field{Type: TypeFloat}, value: int64(3), want: 3.0},
		{name: "float from string", field: Field{Type: TypeFloat}, value: "3.5", want: 3.5},
		{name: "bool from yes", field: Field{Type: TypeBool}, value: "yes", want: true},
		{name: "bool from 0", field: Field{Type: TypeBool}, value: "0", want: false},
		{name: "bool from junk", field: Field{Type: TypeBool}, value: "maybe", wantErr: true},
		{name: "string from int", field: Field{Type: TypeString}, value: int64(8080), want: "8080"},
		{name: "string stays string", field: Field{Type: TypeString}, value: "x", want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(map[string]Field{"v": tt.field})
			got, err := s.Validate(map[string]any{"v": tt.value})
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidType) {
					t.Fatalf("Validate() error = %v, want ErrInvalidType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if !reflect.DeepEqual(got["v"], tt.want) {
				t.Errorf("coerced value = %#v (%T), want %#v (%T)", got["v"], got["v"], tt.want, tt.want)
			}
		})
	}
}

func TestValidatePassesThroughUndeclared(t *testing.T) {
	s := New(map[string]Field{"host": {Type: TypeString, Default: "localhost"}})

	got, err := s.Validate(map[string]any{
		"host":  "db",
		"extra": int64(7),
		"nested": map[string]any{
			"anything": true,
		},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got["extra"] != int64(7) {
		t.Errorf("undeclared field dropped: %#v", got)
	}
	if _, ok := got["nested"].(map[string]any); !ok {
		t.Errorf("undeclared nested mapping dropped: %#v", got)
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	in := map[string]any{"password": "secret"}
	if _, err := testSchema().Validate(in); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(in) != 1 {
		t.Errorf("input mapping was mutated: %#v", in)
	}
}

func TestValidateDottedPaths(t *testing.T) {
	s := New(map[string]Field{
		"db.host":     {Type: TypeString, Default: "localhost"},
		"db.password": {Type: TypeString, Required: true, Sensitive: true},
	})

	got, err := s.Validate(map[string]any{
		"db": map[string]any{"password": "secret"},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	db, ok := got["db"].(map[string]any)
	if !ok {
		t.Fatalf("db is %T, want mapping", got["db"])
	}
	if db["host"] != "localhost" {
		t.Errorf("nested default not filled: %#v", db)
	}

	_, err = s.Validate(map[string]any{"db": map[string]any{"host": "x"}})
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("missing nested required field: error = %v", err)
	}
}

func TestSensitiveFields(t *testing.T) {
	s := New(map[string]Field{
		"password":   {Type: TypeString, Sensitive: true},
		"host":       {Type: TypeString},
		"db.api_key": {Type: TypeString, Sensitive: true},
	})

	got := s.SensitiveFields()
	want := []string{"db.api_key", "password"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SensitiveFields() = %v, want %v", got, want)
	}
}

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		in   string
		want FieldType
	}{
		{"str", TypeString},
		{"string", TypeString},
		{"int", TypeInt},
		{"integer", TypeInt},
		{"float", TypeFloat},
		{"number", TypeFloat},
		{"bool", TypeBool},
		{"boolean", TypeBool},
		{"Bool", TypeBool},
		{"uuid", TypeString}, // unknown names default to string
		{"", TypeString},
	}

	for _, tt := range tests {
		if got := ParseFieldType(tt.in); got != tt.want {
			t.Errorf("ParseFieldType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromFile(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		content := `fields:
  host:
    type: string
    default: localhost
  port:
    type: int
    default: 5432
  password:
    type: string
    required: true
    sensitive: true
    description: database password
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		s, err := FromFile(path)
		if err != nil {
			t.Fatalf("FromFile() error = %v", err)
		}
		if len(s.Fields) != 3 {
			t.Fatalf("Fields = %v, want 3 entries", s.Fields)
		}
		pw := s.Fields["password"]
		if !pw.Required || !pw.Sensitive || pw.Type != TypeString {
			t.Errorf("password field = %+v", pw)
		}
		if s.Fields["port"].Default != int64(5432) {
			t.Errorf("port default = %#v, want int64(5432)", s.Fields["port"].Default)
		}
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.json")
		content := `{"fields": {"token": {"type": "str", "sensitive": true}}}`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		s, err := FromFile(path)
		if err != nil {
			t.Fatalf("FromFile() error = %v", err)
		}
		if !s.Fields["token"].Sensitive {
			t.Errorf("token field = %+v", s.Fields["token"])
		}
	})

	t.Run("missing fields key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		if err := os.WriteFile(path, []byte("host: localhost\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, err := FromFile(path)
		if !errors.Is(err, ErrInvalidSchemaFile) {
			t.Errorf("FromFile() error = %v, want ErrInvalidSchemaFile", err)
		}
	})
}
