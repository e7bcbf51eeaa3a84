package billboard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chartsync/internal/services"
	"chartsync/internal/source"
	"chartsync/internal/source/billboard"
)

const chartPage = `<!doctype html>
<html><body>
<div class="o-chart-results-list-row">
  <span class="c-label a-font-primary-bold-l">1</span>
  <h3 id="title-of-a-story" class="c-title a-no-trucate">
    Blinding Lights
  </h3>
  <span class="c-label a-no-trucate">The Weeknd</span>
</div>
<div class="o-chart-results-list-row">
  <span class="c-label a-font-primary-bold-l">2</span>
  <h3 id="title-of-a-story" class="c-title">Circles</h3>
  <span class="c-label">Post   Malone</span>
</div>
<div class="o-chart-results-list-row">
  <span class="c-label">3</span>
  <h3 class="c-title">The Box</h3>
</div>
</body></html>`

func TestParseExtractsEntriesInDocumentOrder(t *testing.T) {
	entries, err := billboard.Parse(strings.NewReader(chartPage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Track != "Blinding Lights" || first.Rank != source.Present("1") || first.Artist != source.Present("The Weeknd") {
		t.Fatalf("unexpected first entry: %#v", first)
	}
	second := entries[1]
	if second.Rank.Value != "2" || second.Artist.Value != "Post Malone" {
		t.Fatalf("expected whitespace-collapsed second entry, got %#v", second)
	}
	if entries[2].Artist.Present {
		t.Fatalf("expected trailing entry without artist label, got %#v", entries[2])
	}
}

func TestParseFirstEntryWithoutRank(t *testing.T) {
	page := `<h3 class="c-title">Orphan</h3><span class="c-label">Someone</span>`
	entries, err := billboard.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Rank.Present {
		t.Fatalf("expected absent rank, got %#v", entries)
	}
}

func TestParseRejectsPageWithoutEntries(t *testing.T) {
	_, err := billboard.Parse(strings.NewReader(`<html><body><p>Access denied</p></body></html>`))
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestClientOpenFetchesPage(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(chartPage))
	}))
	defer server.Close()

	client, err := billboard.New(server.URL, billboard.WithHTTPClient(server.Client()), billboard.WithUserAgent("chartsync/test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	entries, err := source.Collect(context.Background(), client)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if gotAgent != "chartsync/test" {
		t.Fatalf("expected user agent header, got %q", gotAgent)
	}
}

func TestClientOpenReportsHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := billboard.New(server.URL, billboard.WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Open(context.Background()); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable for 429, got %v", err)
	}

	server.Close()
	if _, err := client.Open(context.Background()); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable for closed server, got %v", err)
	}
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := billboard.New("  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}
