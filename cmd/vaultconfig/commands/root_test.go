package commands

import (
	"context"
	"log/slog"
	"testing"

	"github.com/thoreinstein/vaultconfig/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelInfo},
		{"debug (1)", 1, slog.LevelDebug},
		{"trace (2)", 2, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(context.Background(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
		})
	}
}

func TestSetupLogging_QuietAndVerboseConflict(t *testing.T) {
	origVerbosity, origQuiet := verbosity, quiet
	defer func() { verbosity, quiet = origVerbosity, origQuiet }()

	verbosity = 1
	quiet = true
	if err := setupLogging(rootCmd); err == nil {
		t.Error("expected error for --quiet with --verbose")
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	origVerbosity, origQuiet := verbosity, quiet
	defer func() { verbosity, quiet = origVerbosity, origQuiet }()

	verbosity = 0
	quiet = true
	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}

	logger := slog.Default()
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled in quiet mode")
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should stay enabled in quiet mode")
	}
}
