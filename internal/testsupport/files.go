package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"chartsync/internal/source"
	"chartsync/internal/source/file"
)

// WriteChartFile stores entries as a JSON snapshot readable by the file source.
func WriteChartFile(t testing.TB, path string, entries []source.Entry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := file.Write(path, entries); err != nil {
		t.Fatalf("write chart file %s: %v", path, err)
	}
}

// Entry builds a well-formed raw entry.
func Entry(rank int, artist, track string) source.Entry {
	return source.Entry{
		Track:  track,
		Artist: source.Present(artist),
		Rank:   source.Present(strconv.Itoa(rank)),
	}
}

// Sequence builds n entries at positions 0..n-1 with artists cycling through
// artists. Positions listed in missingArtist get a structurally absent artist.
func Sequence(n int, artists []string, missingArtist ...int) []source.Entry {
	skip := make(map[int]bool, len(missingArtist))
	for _, pos := range missingArtist {
		skip[pos] = true
	}
	entries := make([]source.Entry, 0, n)
	for i := 0; i < n; i++ {
		entry := Entry(i+1, artists[i%len(artists)], "Track "+itoa(i+1))
		if skip[i] {
			entry.Artist = source.Absent
		}
		entries = append(entries, entry)
	}
	return entries
}

func itoa(v int) string { return strconv.Itoa(v) }
