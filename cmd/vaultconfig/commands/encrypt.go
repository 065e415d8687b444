package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/crypt"
	"github.com/thoreinstein/vaultconfig/internal/errors"
)

func init() {
	rootCmd.AddCommand(encryptCmd)
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Manage whole-store encryption",
	Long: `Manage encryption of the config store.

Setting a password encrypts every config file; removing it rewrites them
in plaintext. The password is resolved from VAULTCONFIG_PASSWORD, then
VAULTCONFIG_PASSWORD_COMMAND, then an interactive prompt.`,
	Example: `  vaultconfig encrypt set
  vaultconfig encrypt status
  vaultconfig encrypt remove`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// resolveNewPassword obtains and checks a new store password. The
// environment and password-command sources win; on a terminal the
// password is asked for twice.
func resolveNewPassword(cmd *cobra.Command) (string, error) {
	source := crypt.DefaultSource()

	fromEnv := false
	if v, ok := source.LookupEnv(crypt.EnvPassword); ok && v != "" {
		fromEnv = true
	} else if v, ok := source.LookupEnv(crypt.EnvPasswordCommand); ok && v != "" {
		fromEnv = true
	}

	var password string
	if !fromEnv && source.IsTerminal() {
		first, err := source.Prompt("New password: ")
		if err != nil {
			return "", errors.Wrap(err, "reading password")
		}
		second, err := source.Prompt("Confirm password: ")
		if err != nil {
			return "", errors.Wrap(err, "reading password")
		}
		if first != second {
			return "", errors.ErrPasswordMismatch
		}
		password = first
	} else {
		resolved, err := source.Get("New password: ", true)
		if err != nil {
			return "", err
		}
		password = resolved
	}

	checked, warnings, err := crypt.CheckPassword(password)
	if err != nil {
		return "", err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	return checked, nil
}
