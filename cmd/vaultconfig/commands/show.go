package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/format"
)

var (
	showReveal bool
	showJSON   bool
)

func init() {
	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "Reveal obscured values")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Display a config",
	Long: `Display a config in the store's format.

Obscured values are shown in their stored form unless --reveal is given.
With no name, an interactive picker is shown.`,
	Example: `  vaultconfig show prod
  vaultconfig show prod --reveal
  vaultconfig show prod --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	name, err := requireConfig(m, args)
	if err != nil {
		return err
	}

	entry, err := m.GetConfig(name)
	if err != nil {
		return err
	}

	data := entry.GetAll(showReveal)

	if showJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	handler, err := format.Get(m.Format())
	if err != nil {
		return err
	}
	text, err := handler.Dump(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
