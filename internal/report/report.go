// Package report renders aggregate results as plain-text report files and
// terminal tables.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"chartsync/internal/aggregate"
	"chartsync/internal/chartdb"
	"chartsync/internal/fileutil"
)

// Report file names written by WriteFiles.
const (
	CountsFile  = "song_statistics.txt"
	OverlapFile = "artists_in_both_years.txt"
)

// OnlyInFile names the per-year exclusive artist report.
func OnlyInFile(year chartdb.Year) string {
	return fmt.Sprintf("artists_only_%s.txt", year)
}

// YearCounts pairs a year with its per-artist counts.
type YearCounts struct {
	Year   chartdb.Year
	Counts aggregate.Counts
}

// WriteCounts writes one section per year: a "Year: N" header, one
// "Artist: N songs" line per artist in the order given, and a blank line.
func WriteCounts(w io.Writer, sections []YearCounts) error {
	bw := bufio.NewWriter(w)
	for _, section := range sections {
		fmt.Fprintf(bw, "Year: %s\n", section.Year)
		for _, entry := range section.Counts {
			fmt.Fprintf(bw, "%s: %d songs\n", entry.Name, entry.Count)
		}
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write counts report: %w", err)
	}
	return nil
}

// WriteNames writes one name per line.
func WriteNames(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, name := range names {
		bw.WriteString(name)
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write names report: %w", err)
	}
	return nil
}

// WriteFiles computes the counts, overlap, and per-year exclusive reports for
// years and writes them under dir. It returns the paths written.
func WriteFiles(ctx context.Context, dir string, agg *aggregate.Aggregator, years []chartdb.Year) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	sections := make([]YearCounts, 0, len(years))
	for _, year := range years {
		counts, err := agg.CountsPerArtist(ctx, year)
		if err != nil {
			return nil, err
		}
		sections = append(sections, YearCounts{Year: year, Counts: counts})
	}

	var written []string
	write := func(name string, render func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		if err := fileutil.WriteAtomic(path, 0o644, render); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(CountsFile, func(w io.Writer) error { return WriteCounts(w, sections) }); err != nil {
		return written, err
	}

	overlap, err := agg.ArtistsInAll(ctx, years)
	if err != nil {
		return written, err
	}
	if err := write(OverlapFile, func(w io.Writer) error { return WriteNames(w, overlap.Sorted()) }); err != nil {
		return written, err
	}

	for _, year := range years {
		only, err := agg.ArtistsOnlyIn(ctx, year, years)
		if err != nil {
			return written, err
		}
		if err := write(OnlyInFile(year), func(w io.Writer) error { return WriteNames(w, only.Sorted()) }); err != nil {
			return written, err
		}
	}
	return written, nil
}
