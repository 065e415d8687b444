package crypt

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
	"golang.org/x/text/unicode/norm"
)

// Environment variables consumed for password resolution.
const (
	// EnvPassword holds the literal encryption password.
	EnvPassword = "VAULTCONFIG_PASSWORD"

	// EnvPasswordCommand names a shell command whose trimmed stdout is the
	// password.
	EnvPasswordCommand = "VAULTCONFIG_PASSWORD_COMMAND"

	// EnvPasswordChange is set to "1" in the password command's environment
	// when the password is being changed rather than read.
	EnvPasswordChange = "VAULTCONFIG_PASSWORD_CHANGE"
)

// Password resolution errors.
var (
	// ErrNoPassword indicates no password source produced a password.
	ErrNoPassword = errors.New("no password provided and cannot prompt (not a terminal)")

	// ErrPasswordCommand indicates the password command failed.
	ErrPasswordCommand = errors.New("password command failed")

	// ErrBlankPassword indicates a password with no non-whitespace content.
	ErrBlankPassword = errors.New("password must contain at least one non-whitespace character")
)

// PasswordSource resolves the encryption password. Each hook can be
// replaced in tests, so no source needs a real environment or terminal.
// The zero value is not usable; construct with DefaultSource.
type PasswordSource struct {
	// LookupEnv looks up an environment variable.
	LookupEnv func(key string) (string, bool)

	// RunCommand executes a password command and returns its stdout.
	// changing is true while the password is being rotated.
	RunCommand func(command string, changing bool) (string, error)

	// Prompt reads a password interactively without echo.
	Prompt func(prompt string) (string, error)

	// IsTerminal reports whether interactive prompting is possible.
	IsTerminal func() bool
}

// DefaultSource returns a PasswordSource wired to the real environment,
// shell, and terminal.
func DefaultSource() *PasswordSource {
	return &PasswordSource{
		LookupEnv:  os.LookupEnv,
		RunCommand: runPasswordCommand,
		Prompt:     promptPassword,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Get resolves the password, trying in order:
//
//  1. the VAULTCONFIG_PASSWORD environment variable
//  2. the command named by VAULTCONFIG_PASSWORD_COMMAND (trimmed stdout;
//     VAULTCONFIG_PASSWORD_CHANGE=1 is set while changing)
//  3. an interactive prompt, only when attached to a terminal
//
// The first source that yields a non-empty password wins.
func (s *PasswordSource) Get(prompt string, changing bool) (string, error) {
	if password, ok := s.LookupEnv(EnvPassword); ok && password != "" {
		return password, nil
	}

	if command, ok := s.LookupEnv(EnvPasswordCommand); ok && command != "" {
		out, err := s.RunCommand(command, changing)
		if err != nil {
			return "", errors.Wrapf(ErrPasswordCommand, "%v", err)
		}
		if password := strings.TrimSpace(out); password != "" {
			return password, nil
		}
	}

	if s.IsTerminal() {
		password, err := s.Prompt(prompt)
		if err != nil {
			return "", errors.Wrap(err, "reading password")
		}
		if password != "" {
			return password, nil
		}
	}

	return "", ErrNoPassword
}

// GetPassword resolves the encryption password from the default source.
func GetPassword(prompt string, changing bool) (string, error) {
	return DefaultSource().Get(prompt, changing)
}

// CheckPassword validates and normalizes a password before use. It rejects
// empty and whitespace-only passwords, warns when surrounding whitespace is
// preserved, and applies Unicode NFKC normalization so visually identical
// passwords derive identical keys.
func CheckPassword(password string) (string, []string, error) {
	if password == "" {
		return "", nil, ErrEmptyPassword
	}

	var warnings []string

	if strings.TrimSpace(password) == "" {
		return "", nil, ErrBlankPassword
	}
	if password != strings.TrimSpace(password) {
		warnings = append(warnings, "password has leading or trailing whitespace (preserved)")
	}

	if normalized := norm.NFKC.String(password); normalized != password {
		warnings = append(warnings, "password was normalized using Unicode NFKC")
		password = normalized
	}

	return password, warnings, nil
}

// runPasswordCommand executes command through the shell and returns its
// stdout. The command inherits the current environment, with
// VAULTCONFIG_PASSWORD_CHANGE=1 added while the password is being changed.
func runPasswordCommand(command string, changing bool) (string, error) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Env = os.Environ()
	if changing {
		cmd.Env = append(cmd.Env, EnvPasswordChange+"=1")
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.Wrapf(err, "%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

// promptPassword reads a password from the terminal without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(password), nil
}
