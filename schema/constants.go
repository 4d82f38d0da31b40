package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshot and cache storage.
	DatabaseBackend string

	// EventKind selects which event collection an aggregation runs over.
	EventKind string

	// CohortGranularity is the period length used when auto-partitioning
	// a date range into cohorts.
	CohortGranularity string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All event kinds supported.
const (
	AppEventKind    EventKind = "app" // default
	BubbleEventKind EventKind = "bubble"
)

// All cohort granularities supported.
const (
	WeeklyCohorts    CohortGranularity = "weekly"
	MonthlyCohorts   CohortGranularity = "monthly"
	QuarterlyCohorts CohortGranularity = "quarterly"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidEventKinds lists all valid event kinds.
var ValidEventKinds = map[EventKind]struct{}{
	AppEventKind:    {},
	BubbleEventKind: {},
}

// CohortPalette is the fixed display palette for cohort series. Colors are
// assigned by cycling the palette, so more than six cohorts reuse colors
// in order.
var CohortPalette = []string{
	"#2ED47A",
	"#7C3AED",
	"#F59E0B",
	"#3B82F6",
	"#EC4899",
	"#10B981",
}

// CohortColor returns the palette color for the cohort at the given index.
// Stable for a given index regardless of how many cohorts exist.
func CohortColor(index int) string {
	i := index % len(CohortPalette)
	if i < 0 {
		i += len(CohortPalette)
	}
	return CohortPalette[i]
}
