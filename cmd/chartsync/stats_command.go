package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chartsync/internal/aggregate"
	"chartsync/internal/chartdb"
	"chartsync/internal/config"
	"chartsync/internal/report"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var yearFlag int
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show songs per artist for each year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *chartdb.Store) error {
				years, err := selectedYears(cfg, yearFlag)
				if err != nil {
					return err
				}
				agg := aggregate.New(store)
				out := cmd.OutOrStdout()

				for i, year := range years {
					summary, err := agg.Summary(cmd.Context(), year)
					if err != nil {
						return err
					}
					counts, err := agg.CountsPerArtist(cmd.Context(), year)
					if err != nil {
						return err
					}
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "Year %s: %d records, %d artists", year, summary.Records, summary.Artists)
					if summary.Artists > 0 {
						fmt.Fprintf(out, ", mean %.2f, median %.1f, max %d (%s)",
							summary.MeanPerArtist, summary.MedianPerArtist, summary.MaxPerArtist, summary.TopArtist)
					}
					fmt.Fprintln(out)
					if len(counts) == 0 {
						continue
					}
					fmt.Fprintln(out, report.CountsTable(counts, limit))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&yearFlag, "year", "y", 0, "Only show this chart year")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many artists per year")
	return cmd
}
