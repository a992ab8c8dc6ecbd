package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blacksys/internal/config"
	"blacksys/internal/logging"
)

func tempLogPath(t *testing.T) (string, func() string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	read := func() string {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(data)
	}
	return path, read
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "blacksys.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Fatalf("expected message in log file, got %q", data)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	path, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "transcode").Info("file converted", logging.String("file", "01 - Intro.flac"))

	content := read()
	if !strings.Contains(content, "INFO") {
		t.Fatalf("expected level label, got %q", content)
	}
	if !strings.Contains(content, "transcode: file converted") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, "    - file: 01 - Intro.flac") {
		t.Fatalf("expected field bullet, got %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("expected no color codes in file output, got %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	path, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	if content := read(); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	path, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-1")
	ctx = logging.WithAlbum(ctx, "Artist - Album (2001) [FLAC]")
	ctx = logging.WithPreset(ctx, "V0")
	logging.WithContext(ctx, logger).Info("album processed")

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["run_id"] != "run-1" || payload["preset"] != "V0" {
		t.Fatalf("unexpected context fields: %#v", payload)
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", payload)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	path, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "torrent skipped", "torrent_skipped", logging.String(logging.FieldImpact, "album not uploaded"))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload[logging.FieldEventType] != "torrent_skipped" {
		t.Fatalf("unexpected event type: %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldImpact] != "album not uploaded" {
		t.Fatalf("caller impact should be kept, got %v", payload[logging.FieldImpact])
	}
	if payload[logging.FieldErrorHint] == "" {
		t.Fatal("expected default error hint")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should never be enabled")
	}
}
