package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/vault"
)

var copyForce bool

func init() {
	copyCmd.Flags().BoolVar(&copyForce, "force", false, "Overwrite an existing destination")
	rootCmd.AddCommand(copyCmd)
}

var copyCmd = &cobra.Command{
	Use:     "copy <source> <destination>",
	Aliases: []string{"cp"},
	Short:   "Copy a config under a new name",
	Example: `  vaultconfig copy prod staging`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCopy,
}

func runCopy(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	source, destination := args[0], args[1]
	entry, err := m.GetConfig(source)
	if err != nil {
		return errors.NewUserError(err, "Run: vaultconfig list")
	}
	if m.HasConfig(destination) && !copyForce {
		return errors.NewUserError(
			errors.Wrapf(vault.ErrExists, "%q", destination),
			"Use --force to overwrite")
	}

	// Stored form: obscured values are copied as-is, never re-encoded.
	if err := m.AddConfig(destination, entry.GetAll(false), false); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s\n", source, destination)
	return nil
}
