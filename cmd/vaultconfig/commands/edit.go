package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/editor"
	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/format"
)

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [name]",
	Short: "Edit a config in your editor",
	Long: `Open a config in $EDITOR and save the result back to the store.

The editor sees the stored form: obscured values stay obscured and can be
left untouched. Encryption and schema validation are re-applied on save,
so an edit that breaks the schema is rejected and the store keeps the old
version.`,
	Example: `  vaultconfig edit prod
  EDITOR=vim vaultconfig edit prod`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	handler, err := format.Get(m.Format())
	if err != nil {
		return err
	}
	text, err := handler.Dump(entry.GetAll(false))
	if err != nil {
		return err
	}

	edited, err := editor.EditText(text, handler.Extension())
	if err != nil {
		return err
	}
	if edited == text {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes")
		return nil
	}

	data, err := handler.Load(edited)
	if err != nil {
		return errors.NewUserError(err, "The edited text is not valid "+m.Format())
	}

	if err := m.AddConfig(name, data, true); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", name)
	return nil
}
