package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/obscure"
)

func init() {
	rootCmd.AddCommand(obscureCmd)
	rootCmd.AddCommand(revealCmd)
}

var obscureCmd = &cobra.Command{
	Use:   "obscure [value]",
	Short: "Obscure a single value",
	Long: `Obscure a value the way sensitive config fields are stored.

With no argument the value is read from stdin, keeping it out of shell
history. The result is encoded, not encrypted; anyone with this program
can reverse it.`,
	Example: `  vaultconfig obscure hunter2
  echo -n hunter2 | vaultconfig obscure`,
	Args: cobra.MaximumNArgs(1),
	RunE: runObscure,
}

func runObscure(cmd *cobra.Command, args []string) error {
	value, err := argOrStdin(cmd, args)
	if err != nil {
		return err
	}

	obscured, err := obscure.Obscure(value)
	if err != nil {
		return err
	}

	warnObscureStrength(cmd)
	fmt.Fprintln(cmd.OutOrStdout(), obscured)
	return nil
}

var revealCmd = &cobra.Command{
	Use:   "reveal [value]",
	Short: "Reveal an obscured value",
	Example: `  vaultconfig reveal 3vpkY...
  vaultconfig get prod password | vaultconfig reveal`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReveal,
}

func runReveal(cmd *cobra.Command, args []string) error {
	value, err := argOrStdin(cmd, args)
	if err != nil {
		return err
	}

	revealed, err := obscure.Reveal(value)
	if err != nil {
		return errors.NewUserError(err, "Is the value output of 'vaultconfig obscure'?")
	}

	fmt.Fprintln(cmd.OutOrStdout(), revealed)
	return nil
}

// argOrStdin returns the single positional argument, or the first line of
// stdin when none was given.
func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return "", errors.NewUserError(errors.New("no value given"), "Pass a value or pipe one on stdin")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}
