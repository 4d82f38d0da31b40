package outwriter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
)

func overviewFixture() *schema.OverviewResult {
	result := &schema.OverviewResult{
		Summary: schema.ActivitySummary{
			RangeStart:       "2026-08-01",
			RangeEnd:         "2026-08-31",
			CurrentDAU:       12,
			WeeklyActive:     40,
			MonthlyActive:    80,
			StickinessPct:    15,
			ReturningUsers:   25,
			TotalSessions:    300,
			AvgSessionMs:     37500,
			AvgDailyActiveMs: 75000,
		},
		ActiveUsersByDay: []schema.DailyCount{
			{Day: "2026-08-01", Count: 10},
			{Day: "2026-08-02", Count: 14},
		},
	}
	result.SessionsByHour[9] = 5
	result.SessionsByHour[18] = 20
	return result
}

func TestWriteOverviewTable(t *testing.T) {
	cfg := &contract.Config{
		Output:       schema.TextOut,
		Precision:    1,
		Workers:      4,
		CacheBackend: schema.SQLiteBackend,
	}

	var buf bytes.Buffer
	err := writeOverviewTable(overviewFixture(), cfg, 50*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Daily active users")
	assert.Contains(t, output, "Weekly active users")
	assert.Contains(t, output, "Monthly active users")
	assert.Contains(t, output, "15.0%")
	assert.Contains(t, output, "Returning users")
	assert.Contains(t, output, "37s")
	assert.Contains(t, output, "1m 15s")
	assert.Contains(t, output, "2026-08-01")
	assert.Contains(t, output, "2026-08-02")
	assert.Contains(t, output, "peak hour: 18:00")
	assert.Contains(t, output, "Query completed in")
	assert.Contains(t, output, "with 4 workers")
}

func TestWriteOverviewTableNoDailySeries(t *testing.T) {
	result := overviewFixture()
	result.ActiveUsersByDay = nil

	cfg := &contract.Config{Precision: 1, Workers: 1, CacheBackend: schema.NoneBackend}

	var buf bytes.Buffer
	err := writeOverviewTable(result, cfg, time.Millisecond, &buf)
	require.NoError(t, err)

	// Only the metric table, no per-day breakdown
	assert.NotContains(t, buf.String(), "Active users")
	assert.Contains(t, buf.String(), "Total sessions")
}

func TestPrintOverviewCSV(t *testing.T) {
	tmpFile := tempOutputFile(t, "overview.csv")
	cfg := &contract.Config{
		Output:     schema.CSVOut,
		OutputFile: tmpFile,
		Precision:  1,
	}

	err := PrintOverview(overviewFixture(), cfg, time.Millisecond)
	require.NoError(t, err)

	lines := readOutputLines(t, tmpFile)
	require.Len(t, lines, 3)
	assert.Equal(t, "day,active_users", lines[0])
	assert.Equal(t, "2026-08-01,10", lines[1])
	assert.Equal(t, "2026-08-02,14", lines[2])
}

func TestPrintOverviewParquetRequiresFile(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut}

	err := PrintOverview(overviewFixture(), cfg, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")
}

func TestPeakHour(t *testing.T) {
	var byHour [24]int
	assert.Equal(t, 0, peakHour(byHour))

	byHour[7] = 3
	byHour[22] = 9
	assert.Equal(t, 22, peakHour(byHour))
}

// readOutputLines reads a written output file and splits it into lines.
func readOutputLines(t *testing.T, path string) []string {
	t.Helper()
	content := readOutputFile(t, path)
	return strings.Split(strings.TrimSpace(content), "\n")
}
