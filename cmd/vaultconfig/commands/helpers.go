package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/cli/prompt"
	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/format"
	"github.com/thoreinstein/vaultconfig/internal/logging"
	"github.com/thoreinstein/vaultconfig/internal/paths"
	"github.com/thoreinstein/vaultconfig/internal/schema"
	"github.com/thoreinstein/vaultconfig/internal/vault"
)

// storeDir resolves the store directory from, in order: the --config-dir
// flag, the VAULTCONFIG_DIR environment variable, the settings file, and
// the platform default.
func storeDir() string {
	if configDirFlag != "" {
		return paths.StoreDir(configDirFlag)
	}
	if os.Getenv(paths.EnvStoreDir) != "" {
		return paths.StoreDir("")
	}
	if settings != nil && settings.StoreDir != "" {
		return paths.ExpandHome(settings.StoreDir)
	}
	return paths.DefaultStoreDir()
}

// storeFormat resolves the store format from, in order: the --format flag,
// the settings file, the extension most common among existing store files,
// and the "toml" default.
func storeFormat(dir string) string {
	if formatFlag != "" {
		return formatFlag
	}
	if settings != nil && settings.Format != "" {
		return settings.Format
	}
	if name := detectFormat(dir); name != "" {
		return name
	}
	return "toml"
}

// detectFormat counts store files per known extension and returns the name
// of the most common one. Ties break in format registration order.
func detectFormat(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	counts := map[string]int{}
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		ext := filepath.Ext(de.Name())
		if ext == ".yml" {
			ext = ".yaml"
		}
		counts[ext]++
	}

	best, bestCount := "", 0
	for _, name := range format.Names() {
		handler, err := format.Get(name)
		if err != nil {
			continue
		}
		if n := counts[handler.Extension()]; n > bestCount {
			best, bestCount = name, n
		}
	}
	return best
}

// loadSchema loads the schema named by --schema, or nil when the flag is
// unset.
func loadSchema() (*schema.Schema, error) {
	if schemaFlag == "" {
		return nil, nil
	}
	s, err := schema.FromFile(paths.ExpandHome(schemaFlag))
	if err != nil {
		return nil, errors.NewUserError(err, "Check the --schema file")
	}
	return s, nil
}

// openManager constructs the Manager for the resolved store directory.
func openManager(cmd *cobra.Command) (*vault.Manager, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, err
	}

	dir := storeDir()
	opts := []vault.Option{
		vault.WithLogger(logging.FromContext(cmd.Context())),
	}
	if s != nil {
		opts = append(opts, vault.WithSchema(s))
	}

	m, err := vault.New(dir, storeFormat(dir), opts...)
	if err != nil {
		return nil, errors.NewUserError(err, "Supported formats: "+strings.Join(format.Names(), ", "))
	}
	return m, nil
}

// requireConfig resolves a config name from args, falling back to an
// interactive picker when no name was given.
func requireConfig(m *vault.Manager, args []string) (string, error) {
	if len(args) > 0 {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return "", errors.ErrMissingName
		}
		return name, nil
	}

	names := m.ListConfigs()
	if len(names) == 0 {
		return "", errors.NewUserError(prompt.ErrNoConfigs, "Run: vaultconfig create <name>")
	}

	if logging.IsTTY(os.Stdout) {
		if name, err := prompt.FuzzyConfig(names); err == nil {
			return name, nil
		}
	}
	return prompt.NewSelector().SelectConfig(names)
}

// parseValue converts a raw CLI string into a typed value. With typeName
// "auto" it tries bool, int, and float before falling back to string.
func parseValue(raw, typeName string) (any, error) {
	switch typeName {
	case "", "auto":
		switch strings.ToLower(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
		return raw, nil
	case "str", "string":
		return raw, nil
	case "int", "integer":
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidValue, "%q is not an integer", raw)
		}
		return i, nil
	case "float", "number":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidValue, "%q is not a number", raw)
		}
		return f, nil
	case "bool", "boolean":
		switch strings.ToLower(raw) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		return nil, errors.Wrapf(errors.ErrInvalidValue, "%q is not a boolean", raw)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidValue, "unknown type %q", typeName)
	}
}

// renderValue formats a single value for plain output.
func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

var obscureWarnOnce sync.Once

// warnObscureStrength prints, once per process, that obfuscation is not
// encryption.
func warnObscureStrength(cmd *cobra.Command) {
	obscureWarnOnce.Do(func() {
		fmt.Fprintln(cmd.ErrOrStderr(),
			"Warning: obscured values are encoded with a key built into the program; they are hidden from casual view, not encrypted. Use 'vaultconfig encrypt set' for real protection.")
	})
}

// confirm prompts the user for a yes/no confirmation on stdin.
func confirm(question string) bool {
	ok, err := prompt.NewSelector().Confirm(question)
	return err == nil && ok
}
