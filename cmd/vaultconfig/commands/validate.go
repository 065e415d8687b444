package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Validate configs against a schema",
	Long: `Validate one config, or every config in the store, against the schema
given with --schema. Missing required fields and values that cannot be
coerced to their declared types are reported per config.`,
	Example: `  vaultconfig validate --schema db.yaml
  vaultconfig validate prod --schema db.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if schemaFlag == "" {
		return errors.NewUserError(errors.New("no schema given"), "Pass --schema <file>")
	}
	s, err := loadSchema()
	if err != nil {
		return err
	}

	// Open without the schema so invalid configs still load and can be
	// reported instead of being skipped.
	saved := schemaFlag
	schemaFlag = ""
	m, err := openManager(cmd)
	schemaFlag = saved
	if err != nil {
		return err
	}

	names := m.ListConfigs()
	if len(args) > 0 {
		if !m.HasConfig(args[0]) {
			return errors.NewUserError(
				errors.Newf("config %q not found", args[0]), "Run: vaultconfig list")
		}
		names = args[:1]
	}

	failed := 0
	for _, name := range names {
		entry, err := m.GetConfig(name)
		if err != nil {
			return err
		}
		if _, err := s.Validate(entry.GetAll(false)); err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: ok\n", name)
	}

	if failed > 0 {
		return errors.NewUserError(
			errors.Newf("%d of %d config(s) failed validation", failed, len(names)), "")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d config(s) valid\n", len(names))
	return nil
}
