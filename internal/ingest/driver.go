package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chartsync/internal/chartdb"
	"chartsync/internal/logging"
	"chartsync/internal/normalize"
	"chartsync/internal/services"
	"chartsync/internal/source"
)

// DefaultBatchSize is the number of source positions consumed per batch.
const DefaultBatchSize = 25

// Option customises Driver construction.
type Option func(*Driver)

// WithBatchSize overrides DefaultBatchSize. Non-positive values are ignored.
func WithBatchSize(size int) Option {
	return func(d *Driver) {
		if size > 0 {
			d.batchSize = size
		}
	}
}

// WithLogger sets the driver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRunIDGenerator overrides how batch run identifiers are minted.
func WithRunIDGenerator(fn func() string) Option {
	return func(d *Driver) {
		if fn != nil {
			d.newRunID = fn
		}
	}
}

// Driver ingests one source into one year table.
type Driver struct {
	store     *chartdb.Store
	src       source.Source
	year      chartdb.Year
	batchSize int
	logger    *slog.Logger
	newRunID  func() string
}

// NewDriver returns a driver for src and year. The source client, including
// any credentials it holds, is owned by the caller.
func NewDriver(store *chartdb.Store, src source.Source, year chartdb.Year, opts ...Option) (*Driver, error) {
	if store == nil {
		return nil, fmt.Errorf("ingest: store is nil")
	}
	if src == nil {
		return nil, fmt.Errorf("ingest: source is nil")
	}
	if _, err := chartdb.ParseYear(int(year)); err != nil {
		return nil, err
	}
	d := &Driver{
		store:     store,
		src:       src,
		year:      year,
		batchSize: DefaultBatchSize,
		logger:    logging.NewNop(),
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "ingest")
	return d, nil
}

// Year returns the target year.
func (d *Driver) Year() chartdb.Year { return d.year }

// BatchSize returns the configured batch size.
func (d *Driver) BatchSize() int { return d.batchSize }

// Result describes one committed batch.
type Result struct {
	RunID    string
	Year     chartdb.Year
	Start    int
	Consumed int
	Written  int
	Skipped  int
	Skips    map[normalize.SkipReason]int
	Cursor   int
	Duration time.Duration
}

// Exhausted reports whether the batch stopped short of the batch size, which
// means the source has no further entries past Cursor.
func (r Result) Exhausted(batchSize int) bool { return r.Consumed < batchSize }

// IngestBatch runs one batch. On any error the transaction is rolled back:
// no registry rows, no records, and no cursor observation are kept.
func (d *Driver) IngestBatch(ctx context.Context) (Result, error) {
	runID := d.newRunID()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithYear(ctx, int(d.year))
	ctx = services.WithSource(ctx, d.src.Name())
	logger := logging.WithContext(ctx, d.logger)
	started := time.Now()

	result, err := d.ingest(ctx, runID, logger)
	result.Duration = time.Since(started)
	if err != nil {
		logging.ErrorWithContext(ctx, d.logger, "batch aborted", err,
			logging.Int("start", result.Start),
			logging.String(logging.FieldImpact, "no records written; cursor unchanged"),
		)
		return Result{RunID: runID, Year: d.year, Start: result.Start, Cursor: result.Start}, err
	}

	logger.Info("batch committed",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("start", result.Start),
		logging.Int("consumed", result.Consumed),
		logging.Int("written", result.Written),
		logging.Int("skipped", result.Skipped),
		logging.Int("cursor", result.Cursor),
		logging.Duration("batch_duration", result.Duration),
	)
	return result, nil
}

func (d *Driver) ingest(ctx context.Context, runID string, logger *slog.Logger) (Result, error) {
	result := Result{RunID: runID, Year: d.year, Skips: map[normalize.SkipReason]int{}}

	tx, err := d.store.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer tx.Rollback()

	start, err := tx.Cursor(ctx, d.year)
	if err != nil {
		return result, err
	}
	result.Start = start
	result.Cursor = start

	it, discard, err := d.open(ctx, start)
	if err != nil {
		return result, err
	}
	defer it.Close()

	for i := 0; i < discard; i++ {
		if !it.Next() {
			if err := it.Err(); err != nil {
				return result, source.Unavailable(d.src.Name(), "skip consumed entries", err)
			}
			logger.Debug("source ended before cursor", logging.Int("cursor", start), logging.Int("available", i))
			return result, tx.Commit()
		}
	}

	normalizer := normalize.New(tx)
	records := make([]chartdb.ChartRecord, 0, d.batchSize)
	for result.Consumed < d.batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !it.Next() {
			break
		}
		position := start + result.Consumed
		outcome, err := normalizer.Normalize(ctx, it.Entry())
		if err != nil {
			return result, fmt.Errorf("normalize position %d: %w", position, err)
		}
		result.Consumed++
		if outcome.Skipped() {
			result.Skipped++
			result.Skips[outcome.Skip]++
			logger.Debug("entry skipped",
				logging.Int("position", position),
				logging.String("reason", string(outcome.Skip)),
			)
			continue
		}
		records = append(records, outcome.Record)
	}
	if err := it.Err(); err != nil {
		return result, source.Unavailable(d.src.Name(), "read", err)
	}

	if err := tx.InsertRecords(ctx, d.year, records); err != nil {
		return result, err
	}
	result.Written = len(records)

	if result.Consumed > 0 {
		if err := tx.AdvanceCursor(ctx, d.year, start+result.Consumed, runID); err != nil {
			return result, err
		}
		result.Cursor = start + result.Consumed
	}
	if err := tx.Commit(); err != nil {
		return result, err
	}
	return result, nil
}

// open positions an iterator at start. Seekable sources are asked for the
// offset directly; the rest are read from 0 and the caller discards the
// returned count of leading entries.
func (d *Driver) open(ctx context.Context, start int) (source.Iterator, int, error) {
	if seeker, ok := d.src.(source.Seeker); ok {
		it, err := seeker.OpenAt(ctx, start)
		if err != nil {
			return nil, 0, source.Unavailable(d.src.Name(), "open", err)
		}
		return it, 0, nil
	}
	it, err := d.src.Open(ctx)
	if err != nil {
		return nil, 0, source.Unavailable(d.src.Name(), "open", err)
	}
	return it, start, nil
}

// Run repeats IngestBatch until a batch comes back short or maxBatches
// batches have committed. maxBatches <= 0 means no limit. Results of the
// committed batches are returned even when a later batch fails.
func (d *Driver) Run(ctx context.Context, maxBatches int) ([]Result, error) {
	var results []Result
	for maxBatches <= 0 || len(results) < maxBatches {
		res, err := d.IngestBatch(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if res.Exhausted(d.batchSize) {
			break
		}
	}
	return results, nil
}

// Totals sums written, skipped, and consumed counts across results.
func Totals(results []Result) (written, skipped, consumed int) {
	for _, r := range results {
		written += r.Written
		skipped += r.Skipped
		consumed += r.Consumed
	}
	return written, skipped, consumed
}
