package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/backup"
)

func init() {
	encryptCmd.AddCommand(encryptSetCmd)
}

var encryptSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set or change the store password",
	Long: `Set or change the encryption password and rewrite every config under it.

When the store is already encrypted, the current password is needed to
read the existing files before they are rewritten.`,
	Example: `  vaultconfig encrypt set
  VAULTCONFIG_PASSWORD=hunter2 vaultconfig encrypt set`,
	Args: cobra.NoArgs,
	RunE: runEncryptSet,
}

func runEncryptSet(cmd *cobra.Command, _ []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	password, err := resolveNewPassword(cmd)
	if err != nil {
		return err
	}

	// Every file is about to be rewritten; keep a way back.
	if err := backup.EnsureSnapshot(m.Dir()); err != nil {
		return err
	}

	if err := m.SetEncryptionPassword(password); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Encrypted %d config(s) in %s\n",
		len(m.ListConfigs()), m.Dir())
	return nil
}
