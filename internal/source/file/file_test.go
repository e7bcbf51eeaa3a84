package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chartsync/internal/services"
	"chartsync/internal/source"
	"chartsync/internal/source/file"
)

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func drain(t *testing.T, it source.Iterator) []source.Entry {
	t.Helper()
	defer it.Close()
	var out []source.Entry
	for it.Next() {
		out = append(out, it.Entry())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator: %v", err)
	}
	return out
}

func TestOpenDecodesOptionalFields(t *testing.T) {
	path := writeSnapshot(t, `[
		{"rank": 1, "artist": "A", "track": "S1"},
		{"rank": "#2", "track": "S2"},
		{"artist": "C", "track": "S3"}
	]`)
	src, err := file.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	it, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries := drain(t, it)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Rank != source.Present("1") || entries[0].Artist != source.Present("A") {
		t.Fatalf("unexpected first entry %#v", entries[0])
	}
	if entries[1].Rank.Value != "#2" || entries[1].Artist.Present {
		t.Fatalf("unexpected second entry %#v", entries[1])
	}
	if entries[2].Rank.Present {
		t.Fatalf("expected absent rank, got %#v", entries[2])
	}
}

func TestMalformedElementsKeepTheirPosition(t *testing.T) {
	path := writeSnapshot(t, `[
		{"rank": "1", "artist": "A", "track": "S1"},
		{"rank": {"x": 1}, "artist": "B", "track": "S2"},
		{"rank": "3", "artist": 7, "track": "S3"},
		"not an object",
		{"rank": "5", "artist": "E", "track": ["S5"]},
		{"rank": "6", "artist": "F", "track": "S6"}
	]`)
	src, err := file.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	it, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries := drain(t, it)
	want := []source.Entry{
		{Track: "S1", Artist: source.Present("A"), Rank: source.Present("1")},
		{Track: "S2", Artist: source.Present("B")},
		{Track: "S3", Rank: source.Present("3")},
		{},
		{Artist: source.Present("E"), Rank: source.Present("5")},
		{Track: "S6", Artist: source.Present("F"), Rank: source.Present("6")},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: expected %#v, got %#v", i, want[i], entries[i])
		}
	}
}

func TestOpenAtSkipsConsumedEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.json")
	var entries []source.Entry
	for _, name := range []string{"a", "b", "c", "d"} {
		entries = append(entries, source.Entry{Track: name, Artist: source.Present(name), Rank: source.Present("1")})
	}
	if err := file.Write(path, entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	src, err := file.New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	it, err := src.OpenAt(context.Background(), 2)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	got := drain(t, it)
	if len(got) != 2 || got[0].Track != "c" || got[1].Track != "d" {
		t.Fatalf("unexpected entries after offset: %#v", got)
	}

	it, err = src.OpenAt(context.Background(), 10)
	if err != nil {
		t.Fatalf("OpenAt past end: %v", err)
	}
	if got := drain(t, it); len(got) != 0 {
		t.Fatalf("expected no entries past end, got %d", len(got))
	}
}

func TestOpenReportsUnreadableSnapshots(t *testing.T) {
	missing, err := file.New(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := missing.Open(context.Background()); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable for missing file, got %v", err)
	}

	broken, err := file.New(writeSnapshot(t, `{"not": "an array"}`))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := broken.Open(context.Background()); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable for malformed file, got %v", err)
	}
}
