// Package editor provides utilities for editing config text in the user's
// preferred text editor.
package editor

import (
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Open launches the user's preferred editor for the given path.
// Uses $EDITOR environment variable, falling back to $VISUAL, then nano, then vi.
func Open(path string) error {
	cmd := exec.Command(detectEditor(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}
	return nil
}

// EditText writes text to a temp file with owner-only permissions, opens
// it in the editor, and returns the edited content. Plaintext config data
// passes through here, so the temp file is created 0600 and removed on
// return.
func EditText(text, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "vaultconfig-edit-*"+ext)
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	path := tmp.Name()
	defer os.Remove(path)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "restricting temp file")
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(err, "closing temp file")
	}

	if err := Open(path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading edited file")
	}
	return string(edited), nil
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
