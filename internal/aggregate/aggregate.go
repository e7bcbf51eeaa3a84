// Package aggregate answers cross-year questions over persisted chart
// records. Every operation is a read; nothing here writes to the store.
package aggregate

import (
	"context"
	"sort"

	"chartsync/internal/chartdb"
)

// Reader is the read surface the aggregator needs. *chartdb.Store satisfies it.
type Reader interface {
	ArtistCounts(ctx context.Context, year chartdb.Year) ([]chartdb.ArtistCount, error)
	DistinctArtists(ctx context.Context, year chartdb.Year) ([]chartdb.Artist, error)
	RecordCount(ctx context.Context, year chartdb.Year) (int, error)
}

// Aggregator computes statistics from a Reader.
type Aggregator struct {
	reader Reader
}

// New returns an aggregator over reader.
func New(reader Reader) *Aggregator {
	return &Aggregator{reader: reader}
}

// Counts holds per-artist record counts, ordered by count descending then name.
type Counts []chartdb.ArtistCount

// ByName returns the counts keyed by artist name.
func (c Counts) ByName() map[string]int {
	out := make(map[string]int, len(c))
	for _, entry := range c {
		out[entry.Name] = entry.Count
	}
	return out
}

// Total returns the number of records the counts cover.
func (c Counts) Total() int {
	total := 0
	for _, entry := range c {
		total += entry.Count
	}
	return total
}

// CountsPerArtist returns how many records each artist holds in year. Artists
// without records in the year are absent.
func (a *Aggregator) CountsPerArtist(ctx context.Context, year chartdb.Year) (Counts, error) {
	counts, err := a.reader.ArtistCounts(ctx, year)
	if err != nil {
		return nil, err
	}
	return Counts(counts), nil
}

// NameSet is a set of artist identities keyed by registry id.
type NameSet struct {
	names map[int64]string
}

func newNameSet(artists []chartdb.Artist) NameSet {
	set := NameSet{names: make(map[int64]string, len(artists))}
	for _, artist := range artists {
		set.names[artist.ID] = artist.Name
	}
	return set
}

// Len returns the number of identities in the set.
func (s NameSet) Len() int { return len(s.names) }

// Has reports whether an identity with the given name is in the set.
func (s NameSet) Has(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ArtistsInAll returns the identities with at least one record in every year.
// An empty year list yields an empty set.
func (a *Aggregator) ArtistsInAll(ctx context.Context, years []chartdb.Year) (NameSet, error) {
	if len(years) == 0 {
		return newNameSet(nil), nil
	}
	first, err := a.reader.DistinctArtists(ctx, years[0])
	if err != nil {
		return NameSet{}, err
	}
	result := newNameSet(first)
	for _, year := range years[1:] {
		artists, err := a.reader.DistinctArtists(ctx, year)
		if err != nil {
			return NameSet{}, err
		}
		present := newNameSet(artists)
		for id := range result.names {
			if _, ok := present.names[id]; !ok {
				delete(result.names, id)
			}
		}
	}
	return result, nil
}

// ArtistsOnlyIn returns the identities with records in year and none in any of
// others.
func (a *Aggregator) ArtistsOnlyIn(ctx context.Context, year chartdb.Year, others []chartdb.Year) (NameSet, error) {
	artists, err := a.reader.DistinctArtists(ctx, year)
	if err != nil {
		return NameSet{}, err
	}
	result := newNameSet(artists)
	for _, other := range others {
		if other == year {
			continue
		}
		excluded, err := a.reader.DistinctArtists(ctx, other)
		if err != nil {
			return NameSet{}, err
		}
		for _, artist := range excluded {
			delete(result.names, artist.ID)
		}
	}
	return result, nil
}
