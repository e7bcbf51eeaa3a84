package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartsync/internal/chartdb"
	"chartsync/internal/report"
	"chartsync/internal/testsupport"
)

var (
	charts2020 = testsupport.Sequence(10, []string{"A", "B", "C"}, 2, 5)
	charts2021 = testsupport.Sequence(4, []string{"C", "D"})
)

func recordCount(t *testing.T, env *cliTestEnv, year chartdb.Year) int {
	t.Helper()
	store, err := chartdb.Open(env.cfg)
	if err != nil {
		t.Fatalf("chartdb.Open: %v", err)
	}
	defer store.Close()
	count, err := store.RecordCount(context.Background(), year)
	if err != nil {
		t.Fatalf("RecordCount: %v", err)
	}
	return count
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Source 2020: file")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestIngestResumesAcrossRuns(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021, testsupport.WithBatchSize(6))

	out, _, err := runCLI(t, []string{"ingest", "--year", "2020"}, env.configPath)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	requireContains(t, out, "Written")
	if got := recordCount(t, env, 2020); got != 4 {
		t.Fatalf("expected 4 records after first batch, got %d", got)
	}

	if _, _, err := runCLI(t, []string{"ingest", "--year", "2020"}, env.configPath); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if got := recordCount(t, env, 2020); got != 8 {
		t.Fatalf("expected 8 records after resume, got %d", got)
	}

	if _, _, err := runCLI(t, []string{"ingest", "--year", "2020"}, env.configPath); err != nil {
		t.Fatalf("third ingest: %v", err)
	}
	if got := recordCount(t, env, 2020); got != 8 {
		t.Fatalf("expected exhausted source to add nothing, got %d", got)
	}
	if got := recordCount(t, env, 2021); got != 0 {
		t.Fatalf("expected 2021 untouched, got %d", got)
	}

	out, _, err = runCLI(t, []string{"cursor", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("cursor show: %v", err)
	}
	requireContains(t, out, "10")
}

func TestStatsOverlapAndReport(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)
	if _, _, err := runCLI(t, []string{"ingest", "--batches", "0"}, env.configPath); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	out, _, err := runCLI(t, []string{"stats"}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Year 2020: 8 records, 3 artists")
	requireContains(t, out, "Year 2021: 4 records, 2 artists")

	out, _, err = runCLI(t, []string{"overlap"}, env.configPath)
	if err != nil {
		t.Fatalf("overlap: %v", err)
	}
	requireContains(t, out, "only 2020")
	requireContains(t, out, "A, B")

	dir := filepath.Join(env.baseDir, "out")
	out, _, err = runCLI(t, []string{"report", "--dir", dir}, env.configPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, report.CountsFile)

	counts, err := os.ReadFile(filepath.Join(dir, report.CountsFile))
	if err != nil {
		t.Fatalf("read counts: %v", err)
	}
	if !strings.HasPrefix(string(counts), "Year: 2020\nA: 4 songs\nB: 3 songs\nC: 1 songs\n\n") {
		t.Fatalf("unexpected counts report %q", counts)
	}
	both, err := os.ReadFile(filepath.Join(dir, report.OverlapFile))
	if err != nil {
		t.Fatalf("read overlap: %v", err)
	}
	if string(both) != "C\n" {
		t.Fatalf("unexpected overlap report %q", both)
	}
}

func TestCursorResetDuplicatesRecords(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)
	if _, _, err := runCLI(t, []string{"ingest", "-y", "2021"}, env.configPath); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	out, _, err := runCLI(t, []string{"cursor", "reset", "--year", "2021", "--index", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("cursor reset: %v", err)
	}
	requireContains(t, out, "moved from 4 to 0")

	if _, _, err := runCLI(t, []string{"ingest", "-y", "2021"}, env.configPath); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if got := recordCount(t, env, 2021); got != 8 {
		t.Fatalf("expected duplicated records, got %d", got)
	}

	out, _, err = runCLI(t, []string{"cursor", "show", "--year", "2021", "--history"}, env.configPath)
	if err != nil {
		t.Fatalf("cursor show: %v", err)
	}
	requireContains(t, out, "cli-reset")

	if _, _, err := runCLI(t, []string{"cursor", "reset"}, env.configPath); err == nil {
		t.Fatal("expected reset without --year to fail")
	}
}

func TestIngestContinuesPastFailingSource(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)
	for i := range env.cfg.Sources {
		if env.cfg.Sources[i].Year == 2021 {
			env.cfg.Sources[i].Path = filepath.Join(env.baseDir, "missing.json")
		}
	}
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"ingest"}, env.configPath)
	if err == nil {
		t.Fatal("expected ingest to report the failing source")
	}
	requireContains(t, err.Error(), "2021")
	requireContains(t, out, "failed")
	if got := recordCount(t, env, 2020); got != 8 {
		t.Fatalf("expected 2020 to ingest despite 2021 failure, got %d", got)
	}
	if got := recordCount(t, env, 2021); got != 0 {
		t.Fatalf("expected no 2021 records, got %d", got)
	}
}

func TestSourcesCheck(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)

	out, _, err := runCLI(t, []string{"sources", "check"}, env.configPath)
	if err != nil {
		t.Fatalf("sources check: %v", err)
	}
	requireContains(t, out, "Usable")
	requireContains(t, out, "ok")
	if got := recordCount(t, env, 2020); got != 0 {
		t.Fatalf("expected check to leave the store empty, got %d", got)
	}
}

func TestSourcesCheckReportsEveryYear(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)
	for i := range env.cfg.Sources {
		if env.cfg.Sources[i].Year == 2021 {
			env.cfg.Sources[i].Path = filepath.Join(env.baseDir, "missing.json")
		}
	}
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"sources", "check"}, env.configPath)
	if err == nil {
		t.Fatal("expected sources check to report the failing source")
	}
	requireContains(t, err.Error(), "2021")
	requireContains(t, out, "2020")
	requireContains(t, out, "ok")
	requireContains(t, out, "source unavailable")
}

func TestCommandsFailWhileStoreLocked(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)
	testsupport.MustOpenStore(t, env.cfg)

	_, _, err := runCLI(t, []string{"ingest"}, env.configPath)
	if err == nil {
		t.Fatal("expected locked store error")
	}
	requireContains(t, err.Error(), "another chartsync command")
}

func TestIngestReportsUnusableLogFile(t *testing.T) {
	env := setupCLITestEnv(t, charts2020, charts2021)
	blocker := filepath.Join(env.cfg.Paths.LogDir, "chartsync.log")
	if err := os.MkdirAll(blocker, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, _, err := runCLI(t, []string{"ingest", "--year", "2020"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "open logger") {
		t.Fatalf("expected logger error, got %v", err)
	}
	if got := recordCount(t, env, 2020); got != 0 {
		t.Fatalf("expected no records without a logger, got %d", got)
	}
}
