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

func newReportCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write song statistics and artist overlap reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *chartdb.Store) error {
				dir := cfg.Paths.ReportDir
				if strings.TrimSpace(dirFlag) != "" {
					expanded, err := config.ExpandPath(dirFlag)
					if err != nil {
						return fmt.Errorf("resolve report dir: %w", err)
					}
					dir = expanded
				}
				years, err := selectedYears(cfg, 0)
				if err != nil {
					return err
				}

				paths, err := report.WriteFiles(cmd.Context(), dir, aggregate.New(store), years)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, path := range paths {
					fmt.Fprintf(out, "Wrote %s\n", path)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory for report files (defaults to paths.report_dir)")
	return cmd
}
