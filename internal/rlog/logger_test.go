package rlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("expected default format 'json', got %q", cfg.Format)
	}
	if cfg.Output != os.Stderr {
		t.Errorf("expected default output to be os.Stderr")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CAPSULA_DEBUG", "")
	t.Setenv("CAPSULA_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "text")

	cfg := FromEnv()
	if cfg.Level != "warn" {
		t.Errorf("expected level 'warn', got %q", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("expected format 'text', got %q", cfg.Format)
	}
}

func TestFromEnv_DebugTakesPrecedence(t *testing.T) {
	t.Setenv("CAPSULA_DEBUG", "1")
	t.Setenv("LOG_LEVEL", "error")

	cfg := FromEnv()
	if cfg.Level != "debug" {
		t.Errorf("expected CAPSULA_DEBUG to force level 'debug', got %q", cfg.Level)
	}
	if !cfg.AddSource {
		t.Error("expected CAPSULA_DEBUG to enable AddSource")
	}
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	logger.Warn("capture failed", slog.String(KeyKey, "cwd"), slog.String(PhaseKey, "post"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON log line, got error: %v (line: %s)", err, buf.String())
	}
	if entry[KeyKey] != "cwd" {
		t.Errorf("expected key field 'cwd', got %v", entry[KeyKey])
	}
}

func TestNew_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatText, Output: &buf})

	logger.Info("run started", slog.String(RunNameKey, "add_20260101_000000_ab12"))

	if !strings.Contains(buf.String(), "add_20260101_000000_ab12") {
		t.Errorf("expected text output to contain run name, got: %s", buf.String())
	}
}

func TestWithRunAndPhase(t *testing.T) {
	var buf bytes.Buffer
	base := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	logger := WithPhase(WithRun(base, "run-1"), "pre")
	logger.Info("starting phase")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry[RunNameKey] != "run-1" || entry[PhaseKey] != "pre" {
		t.Errorf("expected run_name and phase fields, got %v", entry)
	}
}
