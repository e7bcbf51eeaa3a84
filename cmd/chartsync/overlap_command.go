package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chartsync/internal/aggregate"
	"chartsync/internal/chartdb"
	"chartsync/internal/config"
	"chartsync/internal/report"
)

func newOverlapCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "overlap",
		Short: "Show artists charting in every year and in only one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *chartdb.Store) error {
				years, err := selectedYears(cfg, 0)
				if err != nil {
					return err
				}
				agg := aggregate.New(store)

				all, err := agg.ArtistsInAll(cmd.Context(), years)
				if err != nil {
					return err
				}
				labels := make([]string, 0, len(years))
				for _, year := range years {
					labels = append(labels, year.String())
				}
				rows := [][]string{{"all of " + strings.Join(labels, ", "), fmt.Sprint(all.Len()), strings.Join(all.Sorted(), ", ")}}

				for _, year := range years {
					only, err := agg.ArtistsOnlyIn(cmd.Context(), year, years)
					if err != nil {
						return err
					}
					rows = append(rows, []string{"only " + year.String(), fmt.Sprint(only.Len()), strings.Join(only.Sorted(), ", ")})
				}

				fmt.Fprintln(cmd.OutOrStdout(), report.Table(
					[]report.Column{report.Text("Set"), report.Number("Artists"), report.Text("Names")},
					rows,
				))
				return nil
			})
		},
	}
}
