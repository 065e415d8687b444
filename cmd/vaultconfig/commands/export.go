package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/format"
)

var (
	exportOutput string
	exportFormat string
	exportReveal bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().StringVar(&exportFormat, "to-format", "", "Export format: toml, ini, yaml (default: store format)")
	exportCmd.Flags().BoolVar(&exportReveal, "reveal", false, "Reveal obscured values")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Export a config to a file or stdout",
	Long: `Export a config, optionally converting to another format.

Obscured values stay in their stored form unless --reveal is given, so a
plain export never leaks secrets into a file with relaxed permissions.`,
	Example: `  vaultconfig export prod
  vaultconfig export prod --to-format yaml -o prod.yaml
  vaultconfig export prod --reveal`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
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
		return errors.NewUserError(err, "Run: vaultconfig list")
	}

	formatName := exportFormat
	if formatName == "" {
		formatName = m.Format()
	}
	handler, err := format.Get(formatName)
	if err != nil {
		return errors.NewUserError(err, "Supported formats: toml, ini, yaml")
	}

	text, err := handler.Dump(entry.GetAll(exportReveal))
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}

	perm := os.FileMode(0o644)
	if exportReveal {
		perm = 0o600
	}
	if err := os.WriteFile(exportOutput, []byte(text), perm); err != nil {
		return errors.Wrap(err, "writing export file")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", name, exportOutput)
	return nil
}
