package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/backup"
)

var encryptRemoveYes bool

func init() {
	encryptRemoveCmd.Flags().BoolVarP(&encryptRemoveYes, "yes", "y", false, "Remove without confirmation")
	encryptCmd.AddCommand(encryptRemoveCmd)
}

var encryptRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove store encryption",
	Long: `Decrypt every config file and store it in plaintext.

The current password is needed to read the files one last time.`,
	Example: `  vaultconfig encrypt remove --yes`,
	Args:    cobra.NoArgs,
	RunE:    runEncryptRemove,
}

func runEncryptRemove(cmd *cobra.Command, _ []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	if !encryptRemoveYes && !confirm("Store all configs in plaintext?") {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}

	if err := backup.EnsureSnapshot(m.Dir()); err != nil {
		return err
	}

	if err := m.RemoveEncryption(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Decrypted %d config(s) in %s\n",
		len(m.ListConfigs()), m.Dir())
	return nil
}
