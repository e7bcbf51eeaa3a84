package chartdb

import (
	"fmt"
	"strconv"
)

// Year identifies one yearly chart dataset and its table.
type Year int

func (y Year) String() string { return strconv.Itoa(int(y)) }

// yearTable holds every statement that touches one year's table. Statements are
// fixed literals so no table name is ever built at runtime.
type yearTable struct {
	insert          string
	selectAll       string
	count           string
	countsByArtist  string
	distinctArtists string
}

var yearTables = map[Year]yearTable{
	2020: {
		insert:    `INSERT INTO tracks_2020 (rank, artist_name, track_name, artist_id) VALUES (?, ?, ?, ?)`,
		selectAll: `SELECT rank, artist_name, track_name, artist_id FROM tracks_2020 ORDER BY rowid`,
		count:     `SELECT COUNT(1) FROM tracks_2020`,
		countsByArtist: `SELECT t.artist_id AS artist_id, a.name AS name, COUNT(*) AS record_count
            FROM tracks_2020 t JOIN artists a ON a.id = t.artist_id
            GROUP BY t.artist_id, a.name
            ORDER BY record_count DESC, a.name`,
		distinctArtists: `SELECT DISTINCT a.id AS id, a.name AS name
            FROM tracks_2020 t JOIN artists a ON a.id = t.artist_id
            ORDER BY a.id`,
	},
	2021: {
		insert:    `INSERT INTO tracks_2021 (rank, artist_name, track_name, artist_id) VALUES (?, ?, ?, ?)`,
		selectAll: `SELECT rank, artist_name, track_name, artist_id FROM tracks_2021 ORDER BY rowid`,
		count:     `SELECT COUNT(1) FROM tracks_2021`,
		countsByArtist: `SELECT t.artist_id AS artist_id, a.name AS name, COUNT(*) AS record_count
            FROM tracks_2021 t JOIN artists a ON a.id = t.artist_id
            GROUP BY t.artist_id, a.name
            ORDER BY record_count DESC, a.name`,
		distinctArtists: `SELECT DISTINCT a.id AS id, a.name AS name
            FROM tracks_2021 t JOIN artists a ON a.id = t.artist_id
            ORDER BY a.id`,
	},
}

// SupportedYears lists the years that have a chart table, in ascending order.
func SupportedYears() []Year {
	return []Year{2020, 2021}
}

// ParseYear validates that a year has a chart table.
func ParseYear(value int) (Year, error) {
	year := Year(value)
	if _, ok := yearTables[year]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownYear, value)
	}
	return year, nil
}

func tableFor(year Year) (yearTable, error) {
	table, ok := yearTables[year]
	if !ok {
		return yearTable{}, fmt.Errorf("%w: %d", ErrUnknownYear, int(year))
	}
	return table, nil
}
