package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/vault"
)

func init() {
	rootCmd.AddCommand(unsetCmd)
}

var unsetCmd = &cobra.Command{
	Use:   "unset <name> <key>",
	Short: "Remove one key from a config",
	Example: `  vaultconfig unset prod database.password
  vaultconfig unset prod debug`,
	Args: cobra.ExactArgs(2),
	RunE: runUnset,
}

func runUnset(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	name, key := args[0], args[1]
	entry, err := m.GetConfig(name)
	if err != nil {
		return errors.NewUserError(err, "Run: vaultconfig list")
	}

	data := entry.GetAll(false)
	if !vault.Delete(data, key) {
		return errors.NewUserError(
			errors.Newf("key %q not found in config %q", key, name),
			"Run: vaultconfig show "+name)
	}

	if err := m.AddConfig(name, data, false); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", key, name)
	return nil
}
