package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"chartsync/internal/chartdb"
	"chartsync/internal/config"
	"chartsync/internal/report"
)

func newCursorCommand(ctx *commandContext) *cobra.Command {
	cursorCmd := &cobra.Command{
		Use:   "cursor",
		Short: "Inspect or rewind ingestion cursors",
	}
	cursorCmd.AddCommand(newCursorShowCommand(ctx))
	cursorCmd.AddCommand(newCursorResetCommand(ctx))
	return cursorCmd
}

func newCursorShowCommand(ctx *commandContext) *cobra.Command {
	var yearFlag int
	var history bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current cursor for each year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *chartdb.Store) error {
				years, err := selectedYears(cfg, yearFlag)
				if err != nil {
					return err
				}
				var rows [][]string
				for _, year := range years {
					observations, err := store.CursorHistory(cmd.Context(), year)
					if err != nil {
						return err
					}
					records, err := store.RecordCount(cmd.Context(), year)
					if err != nil {
						return err
					}
					if len(observations) == 0 {
						rows = append(rows, []string{year.String(), "0", strconv.Itoa(records), "-", "-"})
						continue
					}
					if !history {
						observations = observations[len(observations)-1:]
					}
					for _, obs := range observations {
						rows = append(rows, []string{
							year.String(),
							strconv.Itoa(obs.LastIndex),
							strconv.Itoa(records),
							dashIfEmpty(obs.RunID),
							formatTimestamp(obs.RecordedAt),
						})
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.Table(
					[]report.Column{report.Text("Year"), report.Number("Cursor"), report.Number("Records"),
						report.Text("Run"), report.Text("Recorded")},
					rows,
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&yearFlag, "year", "y", 0, "Only show this chart year")
	cmd.Flags().BoolVar(&history, "history", false, "Show every cursor observation, oldest first")
	return cmd
}

func newCursorResetCommand(ctx *commandContext) *cobra.Command {
	var yearFlag int
	var index int

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Append a cursor observation at the given index",
		Long: `Reset appends a new cursor observation; earlier observations are kept.
Positions before the old cursor will be read again by the next ingest, which
duplicates their records.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if yearFlag == 0 {
				return fmt.Errorf("--year is required")
			}
			return ctx.withStore(func(cfg *config.Config, store *chartdb.Store) error {
				year, err := chartdb.ParseYear(yearFlag)
				if err != nil {
					return err
				}
				previous, err := store.Cursor(cmd.Context(), year)
				if err != nil {
					return err
				}
				if err := store.ResetCursor(cmd.Context(), year, index, "cli-reset"); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cursor for %s moved from %d to %d\n", year, previous, index)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&yearFlag, "year", "y", 0, "Chart year to reset")
	cmd.Flags().IntVar(&index, "index", 0, "New cursor position")
	return cmd
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
