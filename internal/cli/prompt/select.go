// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// Sentinel errors for config selection.
var (
	ErrNoConfigs          = errors.New("no configs to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive config selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectConfig prompts the user to choose from a list of config names.
//
// Returns:
//   - ErrNoConfigs if the list is empty
//   - The name if only one exists (auto-selects without prompting)
//   - The selected name based on user input
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectConfig(names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoConfigs
	}

	// Auto-select if only one config
	if len(names) == 1 {
		return names[0], nil
	}

	// Display selection prompt
	fmt.Fprintf(s.writer, "Multiple configs found:\n")
	for i, name := range names {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, name)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	// Read user input
	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)

	// Default to first option if empty
	if input == "" {
		return names[0], nil
	}

	// Parse selection number
	selection, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	// Validate range (1-indexed)
	if selection < 1 || selection > len(names) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(names))
	}

	return names[selection-1], nil
}

// Confirm asks a yes/no question and reports the answer. An empty answer
// or EOF means no.
func (s *Selector) Confirm(question string) (bool, error) {
	fmt.Fprintf(s.writer, "%s [y/N]: ", question)

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, errors.Wrap(err, "reading confirmation")
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// FuzzyConfig opens a fuzzy finder over the config names. It requires a
// terminal; callers should fall back to SelectConfig when one is not
// available.
func FuzzyConfig(names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoConfigs
	}

	idx, err := fuzzyfinder.Find(names, func(i int) string {
		return names[i]
	})
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "fuzzy selection")
	}
	return names[idx], nil
}
