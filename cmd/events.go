package cmd

import (
	"github.com/spf13/cobra"

	"github.com/endora-app/endoscope/core"
	"github.com/endora-app/endoscope/internal/contract"
)

// eventsCmd ranks the most frequent events.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Rank the most frequent events in the range.",
	Long: `Rank events by frequency over the queried range.

Two collections are available:
- app: named product events, ranked by event name
- bubble: bubble companion interactions, ranked by screen

The ranking includes each entry's share of the total and an hour-of-day
histogram of when events fire.

Examples:
  # Top 10 app events for the default range
  endoscope events

  # Top bubble screens
  endoscope events --kind bubble

  # Wider ranking, exported for analysis
  endoscope events --limit 50 --output csv --output-file events.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		src, err := openSource()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = src.Close() }()

		if err := core.ExecuteEvents(rootCtx, cfg, src, cacheManager); err != nil {
			contract.LogFatal("Cannot run events query", err)
		}
	},
}
