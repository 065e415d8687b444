package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/vault"
)

var (
	setType      string
	setNoObscure bool
	setCreate    bool
)

func init() {
	setCmd.Flags().StringVarP(&setType, "type", "t", "auto", "Value type: auto, str, int, float, bool")
	setCmd.Flags().BoolVar(&setNoObscure, "no-obscure", false, "Store sensitive values without obscuring them")
	setCmd.Flags().BoolVar(&setCreate, "create", false, "Create the config when it does not exist")
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <name> <key> <value>",
	Short: "Set one value in a config",
	Long: `Set a value by dotted path, creating intermediate sections as needed.

The value is parsed per --type; with "auto" it becomes a bool, int, or
float when it looks like one. The whole config is rewritten through
schema validation, so defaults and sensitive-field obscuring apply.`,
	Example: `  vaultconfig set prod database.host db2.example.com
  vaultconfig set prod database.port 5433 --type int
  vaultconfig set prod debug true --type bool`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	name, key, raw := args[0], args[1], args[2]

	// Work on the stored form so untouched obscured values stay obscured.
	data := map[string]any{}
	entry, err := m.GetConfig(name)
	if err == nil {
		data = entry.GetAll(false)
	} else if !setCreate {
		return errors.NewUserError(err, "Run: vaultconfig create "+name+", or pass --create")
	}

	value, err := parseValue(raw, setType)
	if err != nil {
		return err
	}

	vault.Set(data, key, value)

	if err := m.AddConfig(name, data, !setNoObscure); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, name)
	return nil
}
