package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartsync/internal/aggregate"
	"chartsync/internal/chartdb"
	"chartsync/internal/ingest"
	"chartsync/internal/report"
	"chartsync/internal/testsupport"
)

func TestWriteCountsFormat(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteCounts(&buf, []report.YearCounts{
		{Year: 2020, Counts: aggregate.Counts{{Name: "A", Count: 2}, {Name: "B", Count: 1}}},
		{Year: 2021},
	})
	if err != nil {
		t.Fatalf("WriteCounts: %v", err)
	}
	want := "Year: 2020\nA: 2 songs\nB: 1 songs\n\nYear: 2021\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteNames(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteNames(&buf, []string{"A", "B"}); err != nil {
		t.Fatalf("WriteNames: %v", err)
	}
	if buf.String() != "A\nB\n" {
		t.Fatalf("unexpected names output %q", buf.String())
	}
}

func TestWriteFiles(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	seed := map[chartdb.Year]*testsupport.SliceSource{
		2020: {Entries: testsupport.Sequence(3, []string{"A", "B"})},
		2021: {Entries: testsupport.Sequence(2, []string{"B", "C"})},
	}
	for year, src := range seed {
		driver, err := ingest.NewDriver(store, src, year)
		if err != nil {
			t.Fatalf("NewDriver: %v", err)
		}
		if _, err := driver.IngestBatch(ctx); err != nil {
			t.Fatalf("IngestBatch %s: %v", year, err)
		}
	}

	dir := filepath.Join(t.TempDir(), "reports")
	paths, err := report.WriteFiles(ctx, dir, aggregate.New(store), chartdb.SupportedYears())
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 report files, got %v", paths)
	}

	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	if got := read(report.CountsFile); !strings.HasPrefix(got, "Year: 2020\nA: 2 songs\nB: 1 songs\n\nYear: 2021\n") {
		t.Fatalf("unexpected counts report %q", got)
	}
	if got := read(report.OverlapFile); got != "B\n" {
		t.Fatalf("unexpected overlap report %q", got)
	}
	if got := read(report.OnlyInFile(2020)); got != "A\n" {
		t.Fatalf("unexpected 2020 exclusive report %q", got)
	}
	if got := read(report.OnlyInFile(2021)); got != "C\n" {
		t.Fatalf("unexpected 2021 exclusive report %q", got)
	}
}

func TestTableKeepsHeaderCaseAndPadsRows(t *testing.T) {
	out := report.Table(
		[]report.Column{report.Text("Artist"), report.Number("Songs")},
		[][]string{{"A", "2"}, {"B"}},
	)
	if !strings.Contains(out, "Artist") || !strings.Contains(out, "Songs") {
		t.Fatalf("expected mixed-case headers:\n%s", out)
	}
	if strings.Contains(out, "ARTIST") {
		t.Fatalf("headers were uppercased:\n%s", out)
	}
	if !strings.Contains(out, "│ B") {
		t.Fatalf("expected padded short row:\n%s", out)
	}
	if report.Table(nil, nil) != "" {
		t.Fatal("expected empty output without columns")
	}
}

func TestCountsTableLimitsRowsButNotTotal(t *testing.T) {
	counts := aggregate.Counts{
		{Name: "A", Count: 3},
		{Name: "B", Count: 2},
		{Name: "C", Count: 1},
	}
	out := report.CountsTable(counts, 2)
	if !strings.Contains(out, "│ A") || !strings.Contains(out, "│ B") {
		t.Fatalf("expected first two artists:\n%s", out)
	}
	if strings.Contains(out, "│ C") {
		t.Fatalf("expected limit to drop C:\n%s", out)
	}
	if !strings.Contains(out, "Total") || !strings.Contains(out, "6") {
		t.Fatalf("expected total over every artist:\n%s", out)
	}
}
