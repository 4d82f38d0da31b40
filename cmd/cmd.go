// Package cmd defines the command-line interface for endoscope.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(retentionCmd)
	rootCmd.AddCommand(cohortsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotImportCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("from", "", "Start day in YYYY-MM-DD or time ago (e.g. '7 days ago')")
	rootCmd.PersistentFlags().String("to", "", "End day in YYYY-MM-DD or time ago")
	rootCmd.PersistentFlags().String("timezone", "", "Reference IANA timezone for day bucketing (default Europe/Paris)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultTopLimit, "Number of ranked results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in query headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("snapshot-backend", string(schema.SQLiteBackend), "Snapshot backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("snapshot-connect", "", "Database connection string for the snapshot store (mysql/postgresql)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-connect", "", "Database connection string for the result cache (must differ from snapshot-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of eventsCmd to Viper
	eventsCmd.Flags().String("kind", string(schema.AppEventKind), "Event collection to rank: app or bubble")
	if err := viper.BindPFlags(eventsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding events flags", err)
	}

	// Bind all flags of cohortsCmd to Viper
	cohortsCmd.Flags().Int("cohorts", contract.DefaultCohortCount, "Number of auto-generated cohorts to compare")
	cohortsCmd.Flags().StringSlice("cohort", nil, "Manual cohort window as 'start:end' day keys (repeatable)")
	if err := viper.BindPFlags(cohortsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cohorts flags", err)
	}

	// Bind all flags of snapshotImportCmd to Viper
	snapshotImportCmd.Flags().String("dir", "", "Directory holding the JSONL export to import")
	if err := viper.BindPFlags(snapshotImportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot import flags", err)
	}
}
