package chartdb

import (
	"context"
	"fmt"

	"chartsync/internal/services"
)

// InsertRecords writes records to the year's table. Every artist id is checked
// against the registry before the first insert; a dangling id is a
// services.ErrReferentialViolation and nothing is written.
func (t *Tx) InsertRecords(ctx context.Context, year Year, records []ChartRecord) error {
	table, err := tableFor(year)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	checked := make(map[int64]struct{}, len(records))
	for i, rec := range records {
		if rec.Rank < 1 {
			return services.Wrap(services.ErrValidation, "records", "insert",
				fmt.Sprintf("record %d has rank %d", i, rec.Rank), nil)
		}
		if _, ok := checked[rec.ArtistID]; ok {
			continue
		}
		exists, err := artistExists(ctx, t.tx, rec.ArtistID)
		if err != nil {
			return err
		}
		if !exists {
			return services.Wrap(services.ErrReferentialViolation, "records", "insert",
				fmt.Sprintf("artist id %d for %q does not exist", rec.ArtistID, rec.ArtistName), nil)
		}
		checked[rec.ArtistID] = struct{}{}
	}

	stmt, err := t.tx.PreparexContext(ctx, table.insert)
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", year, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Rank, rec.ArtistName, rec.TrackName, rec.ArtistID); err != nil {
			return fmt.Errorf("insert record for %s: %w", year, err)
		}
	}
	return nil
}

// Records returns every record for the year in insertion order.
func (s *Store) Records(ctx context.Context, year Year) ([]ChartRecord, error) {
	table, err := tableFor(year)
	if err != nil {
		return nil, err
	}
	var records []ChartRecord
	if err := s.db.SelectContext(ctx, &records, table.selectAll); err != nil {
		return nil, fmt.Errorf("list records for %s: %w", year, err)
	}
	return records, nil
}

// RecordCount returns the number of records stored for the year.
func (s *Store) RecordCount(ctx context.Context, year Year) (int, error) {
	table, err := tableFor(year)
	if err != nil {
		return 0, err
	}
	var count int
	if err := s.db.GetContext(ctx, &count, table.count); err != nil {
		return 0, fmt.Errorf("count records for %s: %w", year, err)
	}
	return count, nil
}

// ArtistCounts returns per-artist record counts for the year joined to the
// registry, ordered by count descending then name.
func (s *Store) ArtistCounts(ctx context.Context, year Year) ([]ArtistCount, error) {
	table, err := tableFor(year)
	if err != nil {
		return nil, err
	}
	var counts []ArtistCount
	if err := s.db.SelectContext(ctx, &counts, table.countsByArtist); err != nil {
		return nil, fmt.Errorf("count artists for %s: %w", year, err)
	}
	return counts, nil
}

// DistinctArtists returns the identities that hold at least one record in the year.
func (s *Store) DistinctArtists(ctx context.Context, year Year) ([]Artist, error) {
	table, err := tableFor(year)
	if err != nil {
		return nil, err
	}
	var artists []Artist
	if err := s.db.SelectContext(ctx, &artists, table.distinctArtists); err != nil {
		return nil, fmt.Errorf("distinct artists for %s: %w", year, err)
	}
	return artists, nil
}
