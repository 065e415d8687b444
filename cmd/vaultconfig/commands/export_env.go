package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/vault"
)

var envPrefix string

func init() {
	exportEnvCmd.Flags().StringVar(&envPrefix, "prefix", "", "Prefix for every variable name")
	rootCmd.AddCommand(exportEnvCmd)
}

var exportEnvCmd = &cobra.Command{
	Use:   "export-env [name]",
	Short: "Print a config as shell export statements",
	Long: `Print a config as POSIX shell export statements, one per leaf value.

Dotted paths become underscored upper-case names (database.host turns
into DATABASE_HOST). Obscured values are revealed, since the point is to
hand real values to a process environment. Values are single-quoted for
the shell.`,
	Example: `  vaultconfig export-env prod
  vaultconfig export-env prod --prefix PROD_
  eval "$(vaultconfig export-env prod)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExportEnv,
}

func runExportEnv(cmd *cobra.Command, args []string) error {
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

	flat := vault.Flatten(entry.GetAll(true))

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(cmd.OutOrStdout(), "export %s=%s\n",
			envName(envPrefix, key), shellQuote(renderValue(flat[key])))
	}
	return nil
}

// envName turns a dotted path into an environment variable name.
func envName(prefix, key string) string {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	return prefix + name
}

// shellQuote single-quotes a value for POSIX shells, escaping embedded
// single quotes as '\''.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
