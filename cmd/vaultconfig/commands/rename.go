package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/vault"
)

func init() {
	rootCmd.AddCommand(renameCmd)
}

var renameCmd = &cobra.Command{
	Use:     "rename <old> <new>",
	Aliases: []string{"mv"},
	Short:   "Rename a config",
	Example: `  vaultconfig rename staging preprod`,
	Args:    cobra.ExactArgs(2),
	RunE:    runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	oldName, newName := args[0], args[1]
	entry, err := m.GetConfig(oldName)
	if err != nil {
		return errors.NewUserError(err, "Run: vaultconfig list")
	}
	if m.HasConfig(newName) {
		return errors.NewUserError(
			errors.Wrapf(vault.ErrExists, "%q", newName),
			"Delete the destination first, or use copy --force")
	}

	// Write the new file before removing the old so a failure leaves the
	// original intact.
	if err := m.AddConfig(newName, entry.GetAll(false), false); err != nil {
		return err
	}
	if _, err := m.RemoveConfig(oldName); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", oldName, newName)
	return nil
}
