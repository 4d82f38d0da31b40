package cmd

import (
	"github.com/spf13/cobra"

	"github.com/endora-app/endoscope/core"
	"github.com/endora-app/endoscope/internal/contract"
)

// cohortsCmd compares retention across signup cohorts.
var cohortsCmd = &cobra.Command{
	Use:   "cohorts",
	Short: "Compare retention across signup cohorts.",
	Long: `Compare retention curves across multiple signup cohorts.

Without manual windows, cohorts are generated from the queried range:
weekly for ranges up to two weeks, monthly up to three months, quarterly
beyond that. Manual windows via --cohort override generation entirely.

Each cohort is computed independently; a failing cohort reports its error
in the summary without sinking the rest. The merged grid overlays the
healthy curves day by day.

Examples:
  # Compare the last 3 monthly cohorts
  endoscope cohorts

  # Compare 6 cohorts over a longer range
  endoscope cohorts --from 2026-01-01 --to 2026-06-30 --cohorts 6

  # Compare two hand-picked signup windows
  endoscope cohorts --cohort 2026-07-01:2026-07-31 --cohort 2026-08-01:2026-08-31`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		src, err := openSource()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = src.Close() }()

		if err := core.ExecuteCohorts(rootCtx, cfg, src, cacheManager); err != nil {
			contract.LogFatal("Cannot run cohort comparison", err)
		}
	},
}
