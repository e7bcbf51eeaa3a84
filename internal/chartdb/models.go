package chartdb

import "time"

// Artist is a persisted artist identity.
type Artist struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// ChartRecord is one normalized chart entry for a year. ArtistName is the
// canonical registry name of ArtistID, not the raw label the source served, so
// every record of an artist carries the same spelling.
type ChartRecord struct {
	Rank       int    `db:"rank"`
	ArtistName string `db:"artist_name"`
	TrackName  string `db:"track_name"`
	ArtistID   int64  `db:"artist_id"`
}

// ArtistCount is the number of chart records an artist holds in one year.
type ArtistCount struct {
	ArtistID int64  `db:"artist_id"`
	Name     string `db:"name"`
	Count    int    `db:"record_count"`
}

// CursorObservation is one row of the append-only cursor log.
type CursorObservation struct {
	ID         int64
	Year       Year
	LastIndex  int
	RunID      string
	RecordedAt time.Time
}

type cursorRow struct {
	ID         int64   `db:"id"`
	Year       int     `db:"year"`
	LastIndex  int     `db:"last_index"`
	RunID      *string `db:"run_id"`
	RecordedAt string  `db:"recorded_at"`
}

func (r cursorRow) observation() CursorObservation {
	obs := CursorObservation{ID: r.ID, Year: Year(r.Year), LastIndex: r.LastIndex}
	if r.RunID != nil {
		obs.RunID = *r.RunID
	}
	if ts, err := time.Parse(time.RFC3339Nano, r.RecordedAt); err == nil {
		obs.RecordedAt = ts
	}
	return obs
}
