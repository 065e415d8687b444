package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(errors.New("boom"), ExitSystem),
			want: "boom",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
		{
			name: "user error with suggestion",
			err:  NewUserError(ErrMissingName, "pass a config name"),
			want: "config name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	underlying := ErrPasswordMismatch
	wrapped := fmt.Errorf("encrypt set: %w", NewUserError(underlying, "try again"))

	if !errors.Is(wrapped, ErrPasswordMismatch) {
		t.Error("errors.Is should find the sentinel through ExitError")
	}

	var exitErr *ExitError
	if !errors.As(wrapped, &exitErr) {
		t.Fatal("errors.As should find the ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion != "try again" {
		t.Errorf("Suggestion = %q, want %q", exitErr.Suggestion, "try again")
	}
}

func TestExitErrorCodes(t *testing.T) {
	if got := NewUserError(nil, "").Code; got != ExitUser {
		t.Errorf("NewUserError code = %d, want %d", got, ExitUser)
	}
	if got := NewSystemError(nil, "").Code; got != ExitSystem {
		t.Errorf("NewSystemError code = %d, want %d", got, ExitSystem)
	}
}
