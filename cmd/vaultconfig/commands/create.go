package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/format"
	"github.com/thoreinstein/vaultconfig/internal/vault"
	"github.com/thoreinstein/vaultconfig/pkg/fileutil"
)

var (
	createFromFile  string
	createForce     bool
	createNoObscure bool
)

func init() {
	createCmd.Flags().StringVar(&createFromFile, "from-file", "", "Read initial values from a file (format detected)")
	createCmd.Flags().BoolVar(&createForce, "force", false, "Overwrite an existing config")
	createCmd.Flags().BoolVar(&createNoObscure, "no-obscure", false, "Store sensitive values without obscuring them")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name> [key=value ...]",
	Short: "Create a config",
	Long: `Create a named config from key=value pairs or an input file.

Keys may be dotted paths (database.host). Values are parsed as bool, int,
or float when they look like one, string otherwise. Fields the schema
marks sensitive are obscured before the file is written.`,
	Example: `  vaultconfig create prod host=db.example.com port=5432
  vaultconfig create prod database.password=hunter2 --schema db.yaml
  vaultconfig create prod --from-file prod.toml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	m, err := openManager(cmd)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(args[0])
	if name == "" {
		return errors.ErrMissingName
	}
	if m.HasConfig(name) && !createForce {
		return errors.NewUserError(
			errors.Wrapf(vault.ErrExists, "%q", name),
			"Use --force to overwrite, or 'vaultconfig set' to change values")
	}

	data := map[string]any{}

	if createFromFile != "" {
		loaded, err := loadDataFile(createFromFile)
		if err != nil {
			return err
		}
		data = loaded
	}

	for _, pair := range args[1:] {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrInvalidValue, "%q is not key=value", pair), "")
		}
		value, err := parseValue(raw, "auto")
		if err != nil {
			return err
		}
		vault.Set(data, key, value)
	}

	if err := m.AddConfig(name, data, !createNoObscure); err != nil {
		return err
	}

	if !createNoObscure && hasSensitiveSchema() {
		warnObscureStrength(cmd)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", m.ConfigPath(name))
	return nil
}

// loadDataFile reads a data file and parses it, detecting the format from
// the extension and falling back to content sniffing.
func loadDataFile(path string) (map[string]any, error) {
	blob, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, err
	}
	text := string(blob)

	if handler, err := format.ByExtension(strings.ToLower(filepath.Ext(path))); err == nil {
		return handler.Load(text)
	}
	if handler := format.DetectHandler(text); handler != nil {
		return handler.Load(text)
	}
	return nil, errors.NewUserError(
		errors.Wrapf(format.ErrUnsupportedFormat, "cannot determine format of %s", path),
		"Use a .toml, .ini, or .yaml file")
}

// hasSensitiveSchema reports whether a schema with sensitive fields is in
// effect.
func hasSensitiveSchema() bool {
	s, err := loadSchema()
	return err == nil && s != nil && len(s.SensitiveFields()) > 0
}
