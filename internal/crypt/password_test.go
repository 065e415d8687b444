package crypt

import (
	"testing"

	"github.com/cockroachdb/errors"
)

// fakeSource builds a PasswordSource backed by an in-memory environment,
// a canned command result, and a scripted prompt.
func fakeSource(env map[string]string, cmdOut string, cmdErr error, promptOut string, isTTY bool) *PasswordSource {
	return &PasswordSource{
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		RunCommand: func(command string, changing bool) (string, error) {
			return cmdOut, cmdErr
		},
		Prompt: func(prompt string) (string, error) {
			return promptOut, nil
		},
		IsTerminal: func() bool { return isTTY },
	}
}

func TestPasswordSourceGet(t *testing.T) {
	tests := []struct {
		name    string
		source  *PasswordSource
		want    string
		wantErr error
	}{
		{
			name:   "env variable wins",
			source: fakeSource(map[string]string{EnvPassword: "from-env"}, "from-cmd", nil, "from-prompt", true),
			want:   "from-env",
		},
		{
			name: "command when env unset",
			source: fakeSource(map[string]string{EnvPasswordCommand: "pass show vault"},
				"  from-cmd\n", nil, "from-prompt", true),
			want: "from-cmd",
		},
		{
			name: "command failure surfaces",
			source: fakeSource(map[string]string{EnvPasswordCommand: "pass show vault"},
				"", errors.New("exit status 1"), "", true),
			wantErr: ErrPasswordCommand,
		},
		{
			name:   "prompt as last resort",
			source: fakeSource(nil, "", nil, "from-prompt", true),
			want:   "from-prompt",
		},
		{
			name:    "no terminal no password",
			source:  fakeSource(nil, "", nil, "unused", false),
			wantErr: ErrNoPassword,
		},
		{
			name:    "empty prompt answer",
			source:  fakeSource(nil, "", nil, "", true),
			wantErr: ErrNoPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.source.Get("Config password: ", false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Get() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordSourceChangingFlag(t *testing.T) {
	var sawChanging bool
	source := &PasswordSource{
		LookupEnv: func(key string) (string, bool) {
			if key == EnvPasswordCommand {
				return "get-password", true
			}
			return "", false
		},
		RunCommand: func(command string, changing bool) (string, error) {
			sawChanging = changing
			return "pw", nil
		},
		IsTerminal: func() bool { return false },
	}

	if _, err := source.Get("", true); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !sawChanging {
		t.Error("RunCommand should see changing=true during rotation")
	}
}

func TestRunPasswordCommand(t *testing.T) {
	out, err := runPasswordCommand("printf 'secret\\n'", false)
	if err != nil {
		t.Fatalf("runPasswordCommand() error = %v", err)
	}
	if out != "secret\n" {
		t.Errorf("stdout = %q, want %q", out, "secret\n")
	}

	out, err = runPasswordCommand("printf \"$"+EnvPasswordChange+"\"", true)
	if err != nil {
		t.Fatalf("runPasswordCommand(changing) error = %v", err)
	}
	if out != "1" {
		t.Errorf("changing env = %q, want \"1\"", out)
	}

	if _, err := runPasswordCommand("exit 3", false); err == nil {
		t.Error("failing command should return an error")
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name         string
		password     string
		want         string
		wantWarnings int
		wantErr      error
	}{
		{name: "plain password", password: "hunter22", want: "hunter22"},
		{name: "empty", password: "", wantErr: ErrEmptyPassword},
		{name: "whitespace only", password: "   \t", wantErr: ErrBlankPassword},
		{name: "surrounding whitespace preserved", password: " pw ", want: " pw ", wantWarnings: 1},
		// U+FB01 LATIN SMALL LIGATURE FI normalizes to "fi" under NFKC.
		{name: "nfkc normalization", password: "ﬁsh", want: "fish", wantWarnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings, err := CheckPassword(tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CheckPassword() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckPassword() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckPassword() = %q, want %q", got, tt.want)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d of them", warnings, tt.wantWarnings)
			}
		})
	}
}
