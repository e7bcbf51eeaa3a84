package source_test

import (
	"context"
	"errors"
	"testing"

	"chartsync/internal/services"
	"chartsync/internal/source"
)

type staticSource struct{ entries []source.Entry }

func (s staticSource) Name() string { return "static" }

func (s staticSource) Open(context.Context) (source.Iterator, error) {
	return source.NewSliceIterator(s.entries), nil
}

func TestCollectPreservesOrder(t *testing.T) {
	entries := []source.Entry{
		{Track: "S1", Artist: source.Present("A"), Rank: source.Present("1")},
		{Track: "S2", Artist: source.Absent, Rank: source.Present("2")},
	}
	got, err := source.Collect(context.Background(), staticSource{entries: entries})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 || got[0].Track != "S1" || got[1].Artist.Present {
		t.Fatalf("unexpected entries: %#v", got)
	}
}

func TestSkip(t *testing.T) {
	entries := make([]source.Entry, 5)
	if got := source.Skip(entries, 0); len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	if got := source.Skip(entries, 3); len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got := source.Skip(entries, 9); got != nil {
		t.Fatalf("expected nil past end, got %d", len(got))
	}
}

func TestFieldPresence(t *testing.T) {
	if source.Absent.Present {
		t.Fatal("expected Absent to be absent")
	}
	empty := source.Present("")
	if !empty.Present || empty.Value != "" {
		t.Fatalf("expected present empty field, got %#v", empty)
	}
}

func TestUnavailableKeepsExistingMarker(t *testing.T) {
	base := errors.New("dial tcp: refused")
	err := source.Unavailable("billboard", "fetch", base)
	if !errors.Is(err, services.ErrSourceUnavailable) || !errors.Is(err, base) {
		t.Fatalf("expected marked error wrapping base, got %v", err)
	}
	if again := source.Unavailable("billboard", "fetch", err); again != err {
		t.Fatalf("expected already-marked error to pass through, got %v", again)
	}
	if source.Unavailable("x", "y", nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	if !errors.Is(source.Malformed("file", "bad %s", "json"), services.ErrSourceUnavailable) {
		t.Fatal("expected malformed payloads to be source failures")
	}
}
