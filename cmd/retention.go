package cmd

import (
	"github.com/spf13/cobra"

	"github.com/endora-app/endoscope/core"
	"github.com/endora-app/endoscope/internal/contract"
)

// retentionCmd computes the retention curve for the range cohort.
var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Show the retention curve for users who signed up in the range.",
	Long: `Compute signup-relative retention for the cohort of users created
inside the queried range.

Day 0 is each user's own signup day; day N counts users with a session
exactly N days after their signup. Percentages are always relative to the
full cohort size, and days without observable data are omitted rather than
reported as zero.

Wide ranges and very large cohorts are rejected with a guard message;
tune max-cohort-days, max-cohort-users and retention-horizon in the
config file or via ENDOSCOPE_* env variables.

Examples:
  # Retention for users who signed up in the default range
  endoscope retention

  # Retention for one signup week
  endoscope retention --from 2026-08-03 --to 2026-08-09

  # Chart-ready export
  endoscope retention --output csv --output-file retention.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		src, err := openSource()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = src.Close() }()

		if err := core.ExecuteRetention(rootCtx, cfg, src, cacheManager); err != nil {
			contract.LogFatal("Cannot run retention query", err)
		}
	},
}
