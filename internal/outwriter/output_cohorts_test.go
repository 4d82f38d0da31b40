package outwriter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
)

func cohortFixture() *schema.CohortComparison {
	return &schema.CohortComparison{
		Cohorts: []schema.CohortRetention{
			{
				Cohort: schema.CohortWindow{
					ID:        "cohort-2026-06",
					Label:     "Jun 2026",
					StartDate: "2026-06-01",
					EndDate:   "2026-06-30",
				},
				Result: schema.RetentionResult{
					Curve: []schema.RetentionPoint{
						{Day: 0, RetentionPct: 100},
						{Day: 1, RetentionPct: 50},
					},
					CohortSize:  20,
					PeriodStart: "2026-06-01",
					PeriodEnd:   "2026-06-30",
				},
			},
			{
				Cohort: schema.CohortWindow{
					ID:        "cohort-2026-07",
					Label:     "Jul 2026",
					StartDate: "2026-07-01",
					EndDate:   "2026-07-31",
				},
				Result: schema.RetentionResult{
					Curve: []schema.RetentionPoint{
						{Day: 0, RetentionPct: 100},
					},
					CohortSize:  8,
					PeriodStart: "2026-07-01",
					PeriodEnd:   "2026-07-31",
				},
			},
			{
				Cohort: schema.CohortWindow{
					ID:        "cohort-2026-08",
					Label:     "Aug 2026",
					StartDate: "2026-08-01",
					EndDate:   "2026-08-31",
				},
				Result: schema.RetentionResult{
					PeriodStart: "2026-08-01",
					PeriodEnd:   "2026-08-31",
					Error:       "fetch cohort users: connection refused",
				},
			},
		},
		Merged: []schema.MergedRetentionRow{
			{Day: 0, Values: map[string]float64{"Jun 2026": 100, "Jul 2026": 100}},
			{Day: 1, Values: map[string]float64{"Jun 2026": 50}},
		},
	}
}

func TestWriteCohortTables(t *testing.T) {
	cfg := &contract.Config{
		Precision:    1,
		Workers:      3,
		Width:        120,
		CacheBackend: schema.NoneBackend,
	}

	var buf bytes.Buffer
	err := writeCohortTables(cohortFixture(), cfg, 10*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Jun 2026")
	assert.Contains(t, output, "2026-06-01 to 2026-06-30")
	assert.Contains(t, output, "ok")
	assert.Contains(t, output, "connection refused")
	assert.Contains(t, output, "D0")
	assert.Contains(t, output, "100.0%")
	// Sparse cell for Jul 2026 on day 1
	assert.Contains(t, output, "-")
	assert.Contains(t, output, "Comparing 3 cohorts")
	assert.Contains(t, output, "Query completed in")
}

func TestWriteCohortTablesNoMergedRows(t *testing.T) {
	result := cohortFixture()
	result.Merged = nil

	cfg := &contract.Config{Precision: 1, Width: 120}

	var buf bytes.Buffer
	err := writeCohortTables(result, cfg, time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Jun 2026")
	assert.NotContains(t, output, "D0")
}

func TestWriteCohortTablesEmptyCohortStatus(t *testing.T) {
	result := &schema.CohortComparison{
		Cohorts: []schema.CohortRetention{
			{
				Cohort: schema.CohortWindow{
					Label:     "Week of Jan 19",
					StartDate: "2026-01-19",
					EndDate:   "2026-01-25",
				},
				Result: schema.RetentionResult{
					PeriodStart: "2026-01-19",
					PeriodEnd:   "2026-01-25",
				},
			},
		},
	}

	var buf bytes.Buffer
	err := writeCohortTables(result, &contract.Config{Precision: 1, Width: 120}, time.Millisecond, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "no signups")
}

func TestPrintCohortsCSV(t *testing.T) {
	tmpFile := tempOutputFile(t, "cohorts.csv")
	cfg := &contract.Config{
		Output:     schema.CSVOut,
		OutputFile: tmpFile,
		Precision:  1,
	}

	err := PrintCohorts(cohortFixture(), cfg, time.Millisecond)
	require.NoError(t, err)

	lines := readOutputLines(t, tmpFile)
	require.Len(t, lines, 3)
	assert.Equal(t, "day,Jun 2026,Jul 2026,Aug 2026", lines[0])
	assert.Equal(t, "0,100.0,100.0,", lines[1])
	assert.Equal(t, "1,50.0,,", lines[2])
}
