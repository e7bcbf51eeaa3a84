package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chartsync/internal/chartdb"
	"chartsync/internal/config"
	"chartsync/internal/normalize"
	"chartsync/internal/report"
	"chartsync/internal/source"
)

const maxConcurrentProbes = 4

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "Inspect configured chart sources",
	}
	sourcesCmd.AddCommand(newSourcesCheckCommand(ctx))
	return sourcesCmd
}

type probeResult struct {
	year     chartdb.Year
	location string
	entries  int
	usable   int
	elapsed  time.Duration
	err      error
}

func newSourcesCheckCommand(ctx *commandContext) *cobra.Command {
	var yearFlag int

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fetch every configured source and report how many entries it serves",
		Long: `Check opens each configured source concurrently and counts its entries
without touching the chart database. Usable counts entries whose artist and
rank fields are present and whose rank parses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			years, err := selectedYears(cfg, yearFlag)
			if err != nil {
				return err
			}

			results := probeSources(cmd.Context(), cfg, years)

			rows := make([][]string, 0, len(results))
			var failures []error
			for _, res := range results {
				status := "ok"
				if res.err != nil {
					status = res.err.Error()
					failures = append(failures, fmt.Errorf("%s: %w", res.year, res.err))
				}
				rows = append(rows, []string{
					res.year.String(),
					res.location,
					strconv.Itoa(res.entries),
					strconv.Itoa(res.usable),
					res.elapsed.Round(time.Millisecond).String(),
					status,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Table(
				[]report.Column{report.Text("Year"), report.Text("Source"), report.Number("Entries"),
					report.Number("Usable"), report.Number("Elapsed"), report.Text("Status")},
				rows,
			))
			return errors.Join(failures...)
		},
	}

	cmd.Flags().IntVarP(&yearFlag, "year", "y", 0, "Only check this chart year")
	return cmd
}

// probeSources fetches every year's source in parallel. A failing source does
// not cancel the others.
func probeSources(ctx context.Context, cfg *config.Config, years []chartdb.Year) []probeResult {
	results := make([]probeResult, len(years))
	var g errgroup.Group
	g.SetLimit(maxConcurrentProbes)
	for i, year := range years {
		g.Go(func() error {
			results[i] = probe(ctx, cfg, year)
			return nil
		})
	}
	// Probes always return nil; failures travel per year in results.
	g.Wait()
	return results
}

func probe(ctx context.Context, cfg *config.Config, year chartdb.Year) probeResult {
	res := probeResult{year: year}
	srcCfg, ok := cfg.SourceForYear(int(year))
	if !ok {
		res.err = fmt.Errorf("no source configured")
		return res
	}
	res.location = describeSource(srcCfg)

	src, err := buildSource(cfg, srcCfg)
	if err != nil {
		res.err = err
		return res
	}
	started := time.Now()
	entries, err := source.Collect(ctx, src)
	res.elapsed = time.Since(started)
	res.entries = len(entries)
	res.usable = countUsable(entries)
	res.err = err
	return res
}

func countUsable(entries []source.Entry) int {
	usable := 0
	for _, entry := range entries {
		if !entry.Artist.Present || !entry.Rank.Present {
			continue
		}
		if _, ok := normalize.ParseRank(entry.Rank.Value); ok {
			usable++
		}
	}
	return usable
}
