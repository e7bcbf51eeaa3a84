package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"chartsync/internal/source"
)

// Items stay raw so one malformed item does not fail the page.
type tracksPage struct {
	Items []json.RawMessage `json:"items"`
	Next  *string           `json:"next"`
}

type playlistItem struct {
	Track json.RawMessage `json:"track"`
}

type track struct {
	Name    json.RawMessage `json:"name"`
	Artists json.RawMessage `json:"artists"`
}

type artist struct {
	Name json.RawMessage `json:"name"`
}

// iterator expands playlist items into entries page by page.
type iterator struct {
	ctx    context.Context
	client *Client

	pending  []source.Entry
	next     string
	position int
	current  source.Entry
	err      error
}

func (it *iterator) load(page *tracksPage) {
	it.next = ""
	if page.Next != nil {
		it.next = *page.Next
	}
	for _, item := range page.Items {
		it.position++
		it.pending = append(it.pending, expand(item, it.position)...)
	}
}

func (it *iterator) Next() bool {
	for len(it.pending) == 0 {
		if it.err != nil || it.next == "" {
			return false
		}
		page, err := it.client.fetchPage(it.ctx, it.next)
		if err != nil {
			it.err = err
			return false
		}
		it.load(page)
	}
	it.current = it.pending[0]
	it.pending = it.pending[1:]
	return true
}

func (it *iterator) Entry() source.Entry { return it.current }

func (it *iterator) Err() error { return it.err }

func (it *iterator) Close() error {
	it.pending = nil
	it.next = ""
	return nil
}

// expand turns one playlist item into an entry per credited artist. Items
// with no usable track object or artists array still occupy a position and
// yield a single entry with the artist absent. An artist whose name has the
// wrong type is absent; one with no name gets MissingArtistName.
func expand(raw json.RawMessage, position int) []source.Entry {
	rank := source.Present(strconv.Itoa(position))
	var item playlistItem
	var tr track
	if json.Unmarshal(raw, &item) != nil || !hasValue(item.Track) || json.Unmarshal(item.Track, &tr) != nil {
		return []source.Entry{{Track: MissingTrackName, Rank: rank}}
	}
	trackName := MissingTrackName
	if name, ok := decodeString(tr.Name); ok {
		trackName = name
	}
	var artists []json.RawMessage
	if !hasValue(tr.Artists) || json.Unmarshal(tr.Artists, &artists) != nil || len(artists) == 0 {
		return []source.Entry{{Track: trackName, Rank: rank}}
	}

	entries := make([]source.Entry, 0, len(artists))
	for _, rawArtist := range artists {
		entry := source.Entry{Track: trackName, Rank: rank}
		var a artist
		if json.Unmarshal(rawArtist, &a) == nil {
			if !hasValue(a.Name) {
				entry.Artist = source.Present(MissingArtistName)
			} else if name, ok := decodeString(a.Name); ok {
				entry.Artist = source.Present(name)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func hasValue(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func decodeString(raw json.RawMessage) (string, bool) {
	if !hasValue(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
