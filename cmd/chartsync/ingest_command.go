package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"chartsync/internal/chartdb"
	"chartsync/internal/config"
	"chartsync/internal/ingest"
	"chartsync/internal/logging"
	"chartsync/internal/report"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var yearFlag int
	var batchSize int
	var batches int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest the next batch of chart entries for each configured year",
		Long: `Ingest reads each configured source from its saved cursor, writes up to
batch-size normalized records, and advances the cursor. Re-running continues
where the previous run stopped. A source failure aborts that year's batch
without writing anything; other years still run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *chartdb.Store) error {
				years, err := selectedYears(cfg, yearFlag)
				if err != nil {
					return err
				}
				size := cfg.Ingest.BatchSize
				if batchSize > 0 {
					size = batchSize
				}
				logger, closeLogger, err := ctx.openLogger()
				if err != nil {
					return err
				}
				defer closeLogger()

				var rows [][]string
				var failures []error
				for _, year := range years {
					srcCfg, ok := cfg.SourceForYear(int(year))
					if !ok {
						failures = append(failures, fmt.Errorf("no source configured for %s", year))
						continue
					}
					src, err := buildSource(cfg, srcCfg)
					if err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", year, err))
						continue
					}
					driver, err := ingest.NewDriver(store, src, year,
						ingest.WithBatchSize(size),
						ingest.WithLogger(logger),
					)
					if err != nil {
						failures = append(failures, fmt.Errorf("%s: %w", year, err))
						continue
					}

					results, runErr := driver.Run(cmd.Context(), batches)
					written, skipped, consumed := ingest.Totals(results)
					cursor := -1
					if len(results) > 0 {
						cursor = results[len(results)-1].Cursor
					} else if current, err := store.Cursor(cmd.Context(), year); err == nil {
						cursor = current
					}
					status := "ok"
					if runErr != nil {
						status = "failed"
						failures = append(failures, fmt.Errorf("%s: %w", year, runErr))
					}
					rows = append(rows, []string{
						year.String(),
						strconv.Itoa(written),
						strconv.Itoa(skipped),
						strconv.Itoa(consumed),
						strconv.Itoa(cursor),
						status,
					})
					logger.Debug("ingest finished for year",
						logging.Int("year", int(year)),
						logging.Int("batches", len(results)),
					)
				}

				if len(rows) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), report.Table(
						[]report.Column{report.Text("Year"), report.Number("Written"), report.Number("Skipped"),
							report.Number("Consumed"), report.Number("Cursor"), report.Text("Status")},
						rows,
					))
				}
				return errors.Join(failures...)
			})
		},
	}

	cmd.Flags().IntVarP(&yearFlag, "year", "y", 0, "Only ingest this chart year")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "Source positions per batch (defaults to ingest.batch_size)")
	cmd.Flags().IntVar(&batches, "batches", 1, "Maximum batches per year; 0 runs until the source is exhausted")
	return cmd
}
