// Package parquet exports analytics results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/endora-app/endoscope/schema"
)

// DailyActiveRow is one day of the active-user series.
type DailyActiveRow struct {
	// Day is the calendar day key in the reference timezone
	Day string `parquet:"day,snappy"`

	// ActiveUsers is the count of distinct users with a session that day
	ActiveUsers int32 `parquet:"active_users,snappy"`
}

// RetentionRow is one cohort-day point of a retention curve, flattened so
// multi-cohort comparisons land in a single file.
type RetentionRow struct {
	// CohortID is the stable identifier of the cohort window
	CohortID string `parquet:"cohort_id,snappy"`

	// CohortLabel is the display label of the cohort window
	CohortLabel string `parquet:"cohort_label,snappy"`

	// PeriodStart is the first signup day of the cohort window
	PeriodStart string `parquet:"period_start,snappy"`

	// PeriodEnd is the last signup day of the cohort window
	PeriodEnd string `parquet:"period_end,snappy"`

	// CohortSize is the number of users who signed up in the window
	CohortSize int32 `parquet:"cohort_size,snappy"`

	// Day is the offset from each user's signup day
	Day int32 `parquet:"day,snappy"`

	// RetentionPct is the share of the cohort active on that offset
	RetentionPct float64 `parquet:"retention_pct,snappy"`
}

// EventCountRow is one ranked event name with its count.
type EventCountRow struct {
	// Kind distinguishes app events from bubble events
	Kind string `parquet:"kind,snappy"`

	// Name is the event name (or screen, for bubble events)
	Name string `parquet:"name,snappy"`

	// Count is the number of occurrences inside the queried range
	Count int32 `parquet:"count,snappy"`
}

// ConvertDailyActives maps the overview's daily series to Parquet rows.
func ConvertDailyActives(counts []schema.DailyCount) []DailyActiveRow {
	rows := make([]DailyActiveRow, len(counts))
	for i, c := range counts {
		rows[i] = DailyActiveRow{Day: c.Day, ActiveUsers: int32(c.Count)}
	}
	return rows
}

// ConvertRetention flattens a single cohort's curve to Parquet rows.
func ConvertRetention(win schema.CohortWindow, result schema.RetentionResult) []RetentionRow {
	rows := make([]RetentionRow, 0, len(result.Curve))
	for _, p := range result.Curve {
		rows = append(rows, RetentionRow{
			CohortID:     win.ID,
			CohortLabel:  win.Label,
			PeriodStart:  result.PeriodStart,
			PeriodEnd:    result.PeriodEnd,
			CohortSize:   int32(result.CohortSize),
			Day:          int32(p.Day),
			RetentionPct: p.RetentionPct,
		})
	}
	return rows
}

// ConvertCohortComparison flattens every healthy cohort of a comparison.
func ConvertCohortComparison(cohorts []schema.CohortRetention) []RetentionRow {
	var rows []RetentionRow
	for _, c := range cohorts {
		if c.Result.Error != "" {
			continue
		}
		rows = append(rows, ConvertRetention(c.Cohort, c.Result)...)
	}
	return rows
}

// ConvertEventCounts maps a ranked event list to Parquet rows.
func ConvertEventCounts(kind schema.EventKind, top []schema.NameCount) []EventCountRow {
	rows := make([]EventCountRow, len(top))
	for i, nc := range top {
		rows[i] = EventCountRow{Kind: string(kind), Name: nc.Name, Count: int32(nc.Count)}
	}
	return rows
}

// WriteParquet writes records to a Parquet file, inferring the schema from
// the struct tags.
func WriteParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}
