package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartsync/internal/config"
	"chartsync/internal/logging"
	"chartsync/internal/services"
)

func newFileLogger(t *testing.T) (string, func() string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	return logPath, func() string {
		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(content)
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, closer, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })
	logger.Info("ingest started")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "chartsync.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "ingest started") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestCloserReleasesLogFiles(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, closer, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath, logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("before close")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := closer.Close(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected second close to report closed file, got %v", err)
	}
	if !strings.Contains(read(), "before close") {
		t.Fatal("expected message written before close")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })

	logger.Info("message without caller")
	if out := read(); strings.Contains(out, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", out)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })

	logger.Debug("message with caller")
	if out := read(); !strings.Contains(out, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", out)
	}
}

func TestConsoleLoggerFormatsComponentAndYear(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })

	ctx := services.WithYear(services.WithRunID(context.Background(), "run-1"), 2020)
	component := logging.NewComponentLogger(logger, "ingest")
	logging.WithContext(ctx, component).Info("batch committed", logging.Int("written", 8))

	out := read()
	for _, fragment := range []string{"INFO", "ingest[2020]: batch committed", "run_id=run-1", "written=8"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes in file output, got %q", out)
	}
}

func TestJSONLoggerUsesStableKeys(t *testing.T) {
	logPath, read := newFileLogger(t)
	logger, closer, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })

	ctx := services.WithSource(context.Background(), "billboard")
	logging.ErrorWithContext(ctx, logger, "batch aborted", services.Wrap(services.ErrSourceUnavailable, "billboard", "fetch", "", errors.New("timeout")))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "error" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload[logging.FieldEventType] != string(services.KindSourceUnavailable) {
		t.Fatalf("unexpected event type: %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldSource] != "billboard" {
		t.Fatalf("expected source field, got %v", payload[logging.FieldSource])
	}
	if _, ok := payload[logging.FieldErrorHint]; !ok {
		t.Fatal("expected retry hint for source failures")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 0) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.WarnWithContext(context.Background(), nil, "ignored", "noop")
}
