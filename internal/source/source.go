// Package source defines the raw chart entries the ingestion pipeline consumes
// and the interfaces external chart sources implement.
//
// A Source yields an ordered, finite, re-fetchable sequence of entries. Sources
// that can start at an arbitrary position also implement Seeker; for the rest
// the ingestion driver re-reads from position 0 and discards what it already
// consumed.
package source

import (
	"context"
	"fmt"

	"chartsync/internal/services"
)

// Field is a raw text value that may be structurally absent from the upstream
// markup. An absent field differs from a present empty string.
type Field struct {
	Value   string
	Present bool
}

// Present builds a field that exists in the upstream payload.
func Present(value string) Field {
	return Field{Value: value, Present: true}
}

// Absent is the zero Field.
var Absent = Field{}

// Entry is one raw chart position as scraped or fetched.
type Entry struct {
	Track  string
	Artist Field
	Rank   Field
}

// Iterator walks entries in source order. When Next returns false, Err reports
// whether iteration stopped because the source failed.
type Iterator interface {
	Next() bool
	Entry() Entry
	Err() error
	Close() error
}

// Source opens an iterator positioned at the first entry.
type Source interface {
	Name() string
	Open(ctx context.Context) (Iterator, error)
}

// Seeker is implemented by sources that can start at an arbitrary position.
type Seeker interface {
	Source
	OpenAt(ctx context.Context, offset int) (Iterator, error)
}

// Collect drains src into a slice. Intended for probes and tests; ingestion
// reads iterators incrementally.
func Collect(ctx context.Context, src Source) ([]Entry, error) {
	it, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var entries []Entry
	for it.Next() {
		entries = append(entries, it.Entry())
	}
	if err := it.Err(); err != nil {
		return entries, err
	}
	return entries, nil
}

// Unavailable tags err as a source failure unless it already carries the marker.
func Unavailable(name, operation string, err error) error {
	if err == nil {
		return nil
	}
	if services.Classify(err) == services.KindSourceUnavailable {
		return err
	}
	return services.Wrap(services.ErrSourceUnavailable, name, operation, "", err)
}

// Malformed reports a payload that cannot be parsed into entries at all.
func Malformed(name, format string, args ...any) error {
	return services.Wrap(services.ErrSourceUnavailable, name, "parse", fmt.Sprintf(format, args...), nil)
}
