package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/internal/outwriter"
	"github.com/endora-app/endoscope/internal/snapshot"
)

// snapshotCmd groups snapshot store management.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the app record snapshot store",
	Long: `Manage the snapshot of app records that all queries run against.

The snapshot is a read-only copy of users, sessions and events, loaded
from a JSONL export. Queries never touch the production database.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  import - Replace the snapshot with a JSONL export directory
  status - Show record counts and import provenance

Examples:
  # Load a fresh export
  endoscope snapshot import --dir ./export

  # Inspect what is currently loaded
  endoscope snapshot status`,
}

// snapshotImportCmd loads a JSONL export into the snapshot store.
var snapshotImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the snapshot with a JSONL export directory",
	Long: `Import a JSONL export directory into the snapshot store.

Expected files:
  users.jsonl         (required)
  sessions.jsonl      (required)
  app_events.jsonl    (optional)
  bubble_events.jsonl (optional)

The import replaces the previous snapshot wholesale inside a single
transaction; a failed import leaves the previous snapshot intact.

Examples:
  # Import into the default SQLite snapshot
  endoscope snapshot import --dir ./export

  # Import into PostgreSQL (set connection string via env variable)
  ENDOSCOPE_SNAPSHOT_BACKEND=postgresql ENDOSCOPE_SNAPSHOT_CONNECT="..." endoscope snapshot import --dir ./export`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.ImportDir == "" {
			contract.LogFatal("Cannot import snapshot", fmt.Errorf("--dir is required"))
		}

		store, err := snapshot.NewStore(cfg.SnapshotBackend, cfg.SnapshotConnect)
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = store.Close() }()

		result, err := store.ImportDir(rootCtx, cfg.ImportDir)
		if err != nil {
			contract.LogFatal("Failed to import snapshot", err)
		}
		fmt.Printf("Imported %d users, %d sessions, %d app events, %d bubble events.\n",
			result.Users, result.Sessions, result.AppEvents, result.BubbleEvents)
	},
}

// snapshotStatusCmd shows snapshot store status.
var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot record counts and provenance",
	Long: `Show what the snapshot store currently holds.

Displays:
- Backend type
- Record counts per collection
- First and last session days
- When the snapshot was imported

Examples:
  # Check snapshot status
  endoscope snapshot status`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		src, err := openSource()
		if err != nil {
			contract.LogFatal("Cannot open snapshot store", err)
		}
		defer func() { _ = src.Close() }()

		status, err := src.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		outwriter.PrintSnapshotStatus(status)
	},
}
