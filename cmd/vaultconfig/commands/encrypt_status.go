package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/vaultconfig/internal/crypt"
	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/format"
	"github.com/thoreinstein/vaultconfig/pkg/fileutil"
)

func init() {
	encryptCmd.AddCommand(encryptStatusCmd)
}

var encryptStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report which config files are encrypted",
	Long: `Inspect the store files on disk and report their encryption state.

This reads file headers only; no password is needed.`,
	Example: `  vaultconfig encrypt status`,
	Args:    cobra.NoArgs,
	RunE:    runEncryptStatus,
}

func runEncryptStatus(cmd *cobra.Command, _ []string) error {
	dir := storeDir()
	handler, err := format.Get(storeFormat(dir))
	if err != nil {
		return err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No store at %s\n", dir)
			return nil
		}
		return errors.Wrap(err, "reading store directory")
	}

	encrypted, plaintext := 0, 0
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), handler.Extension()) {
			continue
		}
		blob, err := fileutil.ReadFileWithLimit(filepath.Join(dir, de.Name()))
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  unreadable: %v\n", de.Name(), err)
			continue
		}
		name := strings.TrimSuffix(de.Name(), handler.Extension())
		if crypt.IsEncrypted(blob) {
			encrypted++
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", name, green("encrypted"))
		} else {
			plaintext++
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", name, yellow("plaintext"))
		}
	}

	if encrypted+plaintext == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No configs in %s\n", dir)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d encrypted, %d plaintext in %s\n",
		encrypted, plaintext, dir)
	if plaintext > 0 && encrypted > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: store is partially encrypted; run 'vaultconfig encrypt set' to finish")
	}
	return nil
}
