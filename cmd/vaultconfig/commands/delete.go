package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without confirmation")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm"},
	Short:   "Delete a config",
	Example: `  vaultconfig delete staging
  vaultconfig delete staging --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	name, err := requireConfig(m, args)
	if err != nil {
		return err
	}

	if !deleteYes && !confirm(fmt.Sprintf("Delete config %q?", name)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}

	existed, err := m.RemoveConfig(name)
	if err != nil {
		return err
	}
	if !existed {
		fmt.Fprintf(cmd.OutOrStdout(), "No config named %q\n", name)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
	return nil
}
