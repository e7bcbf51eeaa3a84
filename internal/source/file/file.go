// Package file reads chart entries from a local JSON snapshot. It is used for
// offline runs and as a deterministic, seekable source in tests.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"chartsync/internal/fileutil"
	"chartsync/internal/source"
)

// Source reads a JSON array of {"rank", "artist", "track"} objects. Any key may
// be missing and a value of the wrong type counts as missing; rank accepts a
// string or a number.
type Source struct {
	path string
}

var _ source.Seeker = (*Source)(nil)

// New returns a source backed by path. The file is read on every Open.
func New(path string) (*Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("chart file path required")
	}
	return &Source{path: path}, nil
}

// Name identifies the source in logs.
func (s *Source) Name() string { return "file" }

// Path returns the snapshot location.
func (s *Source) Path() string { return s.path }

// Open reads the snapshot from the first entry.
func (s *Source) Open(ctx context.Context) (source.Iterator, error) {
	return s.OpenAt(ctx, 0)
}

// OpenAt reads the snapshot and positions the iterator at offset.
func (s *Source) OpenAt(ctx context.Context, offset int) (source.Iterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, source.Unavailable(s.Name(), "open", err)
	}
	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	return source.NewSliceIterator(source.Skip(entries, offset)), nil
}

type rawEntry struct {
	Rank   json.RawMessage `json:"rank"`
	Artist json.RawMessage `json:"artist"`
	Track  json.RawMessage `json:"track"`
}

// flexString accepts JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("rank must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*f = flexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexString(n.String())
	return nil
}

func (s *Source) read() ([]source.Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, source.Unavailable(s.Name(), "read", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, source.Unavailable(s.Name(), "decode", fmt.Errorf("%s: %w", s.path, err))
	}

	entries := make([]source.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, decodeEntry(item))
	}
	return entries, nil
}

// decodeEntry decodes one snapshot element field by field. An element that is
// not an object yields an entry with every field absent, and a field of the
// wrong type is absent on its own, so the entry still occupies its position.
func decodeEntry(item json.RawMessage) source.Entry {
	var entry source.Entry
	var raw rawEntry
	if err := json.Unmarshal(item, &raw); err != nil {
		return entry
	}
	var rank flexString
	if hasValue(raw.Rank) && json.Unmarshal(raw.Rank, &rank) == nil {
		entry.Rank = source.Present(string(rank))
	}
	var artist string
	if hasValue(raw.Artist) && json.Unmarshal(raw.Artist, &artist) == nil {
		entry.Artist = source.Present(artist)
	}
	var track string
	if hasValue(raw.Track) && json.Unmarshal(raw.Track, &track) == nil {
		entry.Track = track
	}
	return entry
}

func hasValue(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// Write stores entries as a snapshot readable by New. Absent fields are omitted.
func Write(path string, entries []source.Entry) error {
	out := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		obj := map[string]string{"track": e.Track}
		if e.Artist.Present {
			obj["artist"] = e.Artist.Value
		}
		if e.Rank.Present {
			obj["rank"] = e.Rank.Value
		}
		out = append(out, obj)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chart snapshot: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write chart snapshot: %w", err)
	}
	return nil
}
