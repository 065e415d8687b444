package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
)

var getDefault string

func init() {
	getCmd.Flags().StringVar(&getDefault, "default", "", "Value to print when the key is missing")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <name> <key>",
	Short: "Read one value from a config",
	Long: `Read a single value by dotted path.

Values at paths the schema marks sensitive are revealed before printing.`,
	Example: `  vaultconfig get prod database.host
  vaultconfig get prod database.password --schema db.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	name, key := args[0], args[1]
	entry, err := m.GetConfig(name)
	if err != nil {
		return errors.NewUserError(err, "Run: vaultconfig list")
	}

	value, ok := entry.Get(key)
	if !ok {
		if cmd.Flags().Changed("default") {
			fmt.Fprintln(cmd.OutOrStdout(), getDefault)
			return nil
		}
		return errors.NewUserError(
			errors.Newf("key %q not found in config %q", key, name),
			"Run: vaultconfig show "+name)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderValue(value))
	return nil
}
