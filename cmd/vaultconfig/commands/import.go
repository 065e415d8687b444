package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/vault"
)

var importForce bool

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "Overwrite an existing config")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <name> <file>",
	Short: "Import a file as a config",
	Long: `Import a data file as a named config.

The source format is detected from the file extension, falling back to
content sniffing, and need not match the store format. Schema validation
and sensitive-field obscuring apply as with create.`,
	Example: `  vaultconfig import prod prod.yaml
  vaultconfig import prod legacy.ini --force`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(args[0])
	if name == "" {
		return errors.ErrMissingName
	}
	if m.HasConfig(name) && !importForce {
		return errors.NewUserError(
			errors.Wrapf(vault.ErrExists, "%q", name),
			"Use --force to overwrite")
	}

	data, err := loadDataFile(args[1])
	if err != nil {
		return err
	}

	if err := m.AddConfig(name, data, true); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s\n", args[1], name)
	return nil
}
