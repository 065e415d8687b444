package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List config names in the store",
	Example: `  vaultconfig list
  vaultconfig list --json`,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	names := m.ListConfigs()

	if listJSON {
		out, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No configs in %s\n", m.Dir())
		return nil
	}

	header := color.New(color.Bold)
	header.Fprintf(cmd.OutOrStdout(), "Configs in %s (%s):\n", m.Dir(), m.Format())
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
	return nil
}
