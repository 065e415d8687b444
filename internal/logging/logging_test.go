package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("loaded config", "name", "db")

	out := buf.String()
	if !strings.Contains(out, "loaded config") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "name=db") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("saved", "name", "db")

	out := buf.String()
	if !strings.Contains(out, `"msg":"saved"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message should pass: %q", out)
	}
}

func TestHandlerMasksSecrets(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantRaw bool
	}{
		{name: "password key masked", key: "password", value: "hunter22", wantRaw: false},
		{name: "nested password key masked", key: "db_password", value: "hunter22", wantRaw: false},
		{name: "ordinary key untouched", key: "host", value: "localhost", wantRaw: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(NewHandler(&buf, nil))
			logger.Info("msg", tt.key, tt.value)

			got := strings.Contains(buf.String(), tt.value)
			if got != tt.wantRaw {
				t.Errorf("contains raw value = %v, want %v (output %q)", got, tt.wantRaw, buf.String())
			}
		})
	}
}

func TestMaskValue(t *testing.T) {
	if got := maskValue("ab"); got != "********" {
		t.Errorf("short value mask = %q", got)
	}
	if got := maskValue("supersecret"); got != "****cret" {
		t.Errorf("long value mask = %q", got)
	}
}

func TestTeeDispatch(t *testing.T) {
	var a, b bytes.Buffer
	tee := NewTee(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(tee)

	logger.Info("info msg")
	logger.Error("error msg")

	if !strings.Contains(a.String(), "info msg") || !strings.Contains(a.String(), "error msg") {
		t.Errorf("first handler missing records: %q", a.String())
	}
	if strings.Contains(b.String(), "info msg") {
		t.Errorf("second handler should filter info: %q", b.String())
	}
	if !strings.Contains(b.String(), "error msg") {
		t.Errorf("second handler missing error: %q", b.String())
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, LevelTrace},
		{5, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}
