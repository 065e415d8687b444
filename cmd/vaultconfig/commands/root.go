// Package commands implements the CLI commands for vaultconfig.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	buildinfo "github.com/thoreinstein/vaultconfig/cmd"
	"github.com/thoreinstein/vaultconfig/internal/config"
	"github.com/thoreinstein/vaultconfig/internal/errors"
	"github.com/thoreinstein/vaultconfig/internal/logging"
)

// configDirFlag holds the value of the --config-dir flag.
var configDirFlag string

// formatFlag holds the value of the --format flag.
var formatFlag string

// schemaFlag holds the path given to the --schema flag.
var schemaFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// settings is the tool configuration loaded at startup.
var settings *config.Config

// settingsLoadErr holds any error that occurred during settings loading.
var settingsLoadErr error

func init() {
	cobra.OnInitialize(initSettings)

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&configDirFlag, "config-dir", "C", "",
		"directory holding the config store (default: $VAULTCONFIG_DIR or ~/.config/vaultconfig/configs)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "",
		"config file format: toml, ini, yaml (default: detected from existing files)")
	rootCmd.PersistentFlags().StringVar(&schemaFlag, "schema", "",
		"path to a schema file used to validate configs")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	// Add version flag
	rootCmd.Version = buildinfo.Version
	rootCmd.SetVersionTemplate(
		"vaultconfig version {{.Version}} (commit " + buildinfo.Commit + ", built " + buildinfo.Date + ")\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initSettings() {
	config.Init()
	settings, settingsLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "vaultconfig",
	Short: "Secure store for named configuration entries",
	Long: `vaultconfig manages named configuration entries as files under a single
directory, with optional whole-store encryption and per-field obfuscation
of sensitive values.

Each config is one file in a common format (TOML, INI, or YAML). Setting
an encryption password encrypts every file in the store; fields marked
sensitive in a schema are additionally obscured so they never sit in
plaintext on disk.`,
	Example: `  # Create a config interactively
  vaultconfig create prod

  # Read one value
  vaultconfig get prod database.password

  # Encrypt the whole store
  vaultconfig encrypt set

  # Export a config as environment variables
  vaultconfig export-env prod --prefix PROD_

  See Also: vaultconfig init, vaultconfig encrypt status`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if settingsLoadErr != nil {
			return errors.NewUserError(settingsLoadErr, "Check ~/.config/vaultconfig/config.yaml")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("VAULTCONFIG_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1
				case "2":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewTee(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return errors.ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", exitErr.Suggestion)
		}
		return exitErr.Code
	}
	return errors.ExitUser
}
