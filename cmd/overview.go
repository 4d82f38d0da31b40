package cmd

import (
	"github.com/spf13/cobra"

	"github.com/endora-app/endoscope/core"
	"github.com/endora-app/endoscope/internal/contract"
)

// overviewCmd computes the engagement overview.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show engagement KPIs for the queried range.",
	Long: `Compute the core engagement picture from the snapshot store.

Reports:
- DAU, WAU and MAU relative to the moment of invocation
- Stickiness (DAU/MAU) as a percentage
- Returning users: pre-range signups active inside the range
- Total sessions plus average session and daily active time
- Active users per day and session starts per hour of day

Examples:
  # Overview for the default trailing 30 days
  endoscope overview

  # Overview for a fixed window
  endoscope overview --from 2026-08-01 --to 2026-08-31

  # Export the daily active series for charting
  endoscope overview --output csv --output-file dau.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		src, err := openSource()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = src.Close() }()

		if err := core.ExecuteOverview(rootCtx, cfg, src, cacheManager); err != nil {
			contract.LogFatal("Cannot run overview query", err)
		}
	},
}
