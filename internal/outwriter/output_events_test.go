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

func eventsFixture() *schema.EventsResult {
	result := &schema.EventsResult{
		Kind:        schema.AppEventKind,
		RangeStart:  "2026-08-01",
		RangeEnd:    "2026-08-31",
		TotalEvents: 200,
		Top: []schema.NameCount{
			{Name: "session_start", Count: 120},
			{Name: "purchase", Count: 50},
			{Name: "share", Count: 30},
		},
	}
	result.ByHour[14] = 80
	return result
}

func TestWriteEventsTable(t *testing.T) {
	cfg := &contract.Config{
		Precision:    1,
		Workers:      2,
		CacheBackend: schema.SQLiteBackend,
	}

	var buf bytes.Buffer
	err := writeEventsTable(eventsFixture(), cfg, 5*time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "session_start")
	assert.Contains(t, output, "60.0%")
	assert.Contains(t, output, "purchase")
	assert.Contains(t, output, "25.0%")
	assert.Contains(t, output, "Showing top 3 app events (total: 200, peak hour: 14:00)")
	assert.Contains(t, output, "Query completed in")
}

func TestPrintEventsCSV(t *testing.T) {
	tmpFile := tempOutputFile(t, "events.csv")
	cfg := &contract.Config{
		Output:     schema.CSVOut,
		OutputFile: tmpFile,
		Precision:  1,
	}

	err := PrintEvents(eventsFixture(), cfg, time.Millisecond)
	require.NoError(t, err)

	lines := readOutputLines(t, tmpFile)
	require.Len(t, lines, 4)
	assert.Equal(t, "rank,name,count,share_pct", lines[0])
	assert.Equal(t, "1,session_start,120,60.0", lines[1])
	assert.Equal(t, "2,purchase,50,25.0", lines[2])
	assert.Equal(t, "3,share,30,15.0", lines[3])
}

func TestSharePct(t *testing.T) {
	assert.InDelta(t, 60.0, sharePct(120, 200), 1e-9)
	assert.InDelta(t, 0.0, sharePct(5, 0), 1e-9)
}
