package chartdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chartsync/internal/services"
)

func currentCursor(ctx context.Context, q queryer, year Year) (int, error) {
	if _, err := tableFor(year); err != nil {
		return 0, err
	}
	var last int
	err := q.GetContext(ctx, &last,
		`SELECT last_index FROM cursor_log WHERE year = ? ORDER BY id DESC LIMIT 1`, int(year))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cursor for %s: %w", year, err)
	}
	return last, nil
}

func appendCursor(ctx context.Context, q queryer, year Year, index int, runID string) error {
	if index < 0 {
		return services.Wrap(services.ErrValidation, "cursor", "append",
			fmt.Sprintf("index %d is negative", index), nil)
	}
	var run any
	if runID != "" {
		run = runID
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO cursor_log (year, last_index, run_id, recorded_at) VALUES (?, ?, ?, ?)`,
		int(year), index, run, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append cursor for %s: %w", year, err)
	}
	return nil
}

// Cursor returns the last committed source index for the year, or 0 when no
// observation exists.
func (t *Tx) Cursor(ctx context.Context, year Year) (int, error) {
	return currentCursor(ctx, t.tx, year)
}

// AdvanceCursor appends index as the new authoritative cursor for the year. The
// cursor only moves forward; use Store.ResetCursor to rewind.
func (t *Tx) AdvanceCursor(ctx context.Context, year Year, index int, runID string) error {
	current, err := currentCursor(ctx, t.tx, year)
	if err != nil {
		return err
	}
	if index < current {
		return services.Wrap(services.ErrValidation, "cursor", "advance",
			fmt.Sprintf("index %d is behind current cursor %d for %s", index, current, year), nil)
	}
	return appendCursor(ctx, t.tx, year, index, runID)
}

// Cursor returns the last committed source index for the year.
func (s *Store) Cursor(ctx context.Context, year Year) (int, error) {
	return currentCursor(ctx, s.db, year)
}

// ResetCursor appends an operator-chosen index for the year. Earlier
// observations are kept. Rewinding lets already-ingested positions be read
// again, which duplicates their chart records.
func (s *Store) ResetCursor(ctx context.Context, year Year, index int, runID string) error {
	if _, err := tableFor(year); err != nil {
		return err
	}
	return appendCursor(ctx, s.db, year, index, runID)
}

// CursorHistory returns every cursor observation for the year, oldest first.
func (s *Store) CursorHistory(ctx context.Context, year Year) ([]CursorObservation, error) {
	if _, err := tableFor(year); err != nil {
		return nil, err
	}
	var rows []cursorRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, year, last_index, run_id, recorded_at FROM cursor_log WHERE year = ? ORDER BY id`, int(year))
	if err != nil {
		return nil, fmt.Errorf("cursor history for %s: %w", year, err)
	}
	history := make([]CursorObservation, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.observation())
	}
	return history, nil
}
