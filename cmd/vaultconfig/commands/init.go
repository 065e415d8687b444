package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/vaultconfig/internal/format"
	"github.com/thoreinstein/vaultconfig/internal/paths"
)

var (
	initYes     bool
	initForce   bool
	initEncrypt bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing settings")
	initCmd.Flags().BoolVar(&initEncrypt, "encrypt", false, "Set an encryption password for the store")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the config store",
	Long: `Create the store directory and write the tool settings file.

The settings file records the store directory and format so later commands
do not need --config-dir or --format flags.`,
	Example: `  # Initialize with the defaults
  vaultconfig init --yes

  # Initialize a YAML store in a custom location
  vaultconfig init --config-dir ~/secrets --format yaml

  # Initialize an encrypted store
  vaultconfig init --yes --encrypt

  See Also: vaultconfig create, vaultconfig encrypt set`,
	RunE: runInit,
}

// toolSettings represents the settings file structure.
type toolSettings struct {
	Version  int    `yaml:"version"`
	StoreDir string `yaml:"store_dir,omitempty"`
	Format   string `yaml:"format,omitempty"`
}

func runInit(cmd *cobra.Command, _ []string) error {
	settingsPath := filepath.Join(paths.ConfigHome(), paths.AppName, "config.yaml")
	dir := storeDir()
	name := storeFormat(dir)
	if _, err := format.Get(name); err != nil {
		return err
	}

	if _, err := os.Stat(settingsPath); err == nil && !initForce {
		fmt.Printf("Settings already exist at %s\n", settingsPath)
		fmt.Println("Use --force to overwrite")
		return nil
	}

	if !initYes {
		fmt.Printf("Store directory: %s\n", dir)
		fmt.Printf("Format: %s\n", name)
		fmt.Println()
		fmt.Println("This will create:")
		fmt.Printf("  %s\n", dir)
		fmt.Printf("  %s\n", settingsPath)
		fmt.Println()

		if !confirm("Proceed?") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := paths.EnsureDir(dir, 0); err != nil {
		return errors.Wrap(err, "creating store directory")
	}
	if err := paths.EnsureDir(filepath.Dir(settingsPath), 0o755); err != nil {
		return errors.Wrap(err, "creating settings directory")
	}

	cfg := toolSettings{Version: 1, Format: name}
	if dir != paths.DefaultStoreDir() {
		cfg.StoreDir = dir
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling settings")
	}
	if err := os.WriteFile(settingsPath, data, 0o644); err != nil {
		return errors.Wrap(err, "writing settings file")
	}

	fmt.Printf("Created %s\n", settingsPath)

	if initEncrypt {
		password, err := resolveNewPassword(cmd)
		if err != nil {
			return err
		}
		m, err := openManager(cmd)
		if err != nil {
			return err
		}
		if err := m.SetEncryptionPassword(password); err != nil {
			return err
		}
		fmt.Printf("Encryption enabled for %s\n", dir)
	}
	return nil
}
