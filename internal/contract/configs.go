package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/endora-app/endoscope/core/bucket"
	"github.com/endora-app/endoscope/schema"
)

// Default values for configuration.
const (
	DefaultRangeDays   = 30
	DefaultTopLimit    = 10
	MaxTopLimit        = 1000
	DefaultCohortCount = 3
	MaxCohortCount     = 12
	DefaultPrecision   = 1

	// Retention engine guardrails; tunable, these are the product defaults.
	DefaultMaxCohortSpanDays    = 30
	DefaultMaxCohortUsers       = 2000
	DefaultRetentionHorizonDays = 30
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for analytics runs.
// This struct remains the "final, validated" config.
type Config struct {
	RangeStart string // inclusive day key
	RangeEnd   string // inclusive day key
	Now        time.Time
	Zone       string

	TopLimit  int
	Workers   int
	Precision int

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseEmojis  bool
	UseColors  bool

	EventKind schema.EventKind

	CohortCount int
	CohortSpecs []string // manual "start:end" cohort definitions

	MaxCohortSpanDays    int
	MaxCohortUsers       int
	RetentionHorizonDays int

	SnapshotBackend schema.DatabaseBackend
	SnapshotConnect string // Please use env var as this is plaintext

	CacheBackend schema.DatabaseBackend
	CacheConnect string // Please use env var as this is plaintext

	ImportDir string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	From            string `mapstructure:"from"`
	To              string `mapstructure:"to"`
	Timezone        string `mapstructure:"timezone"`
	Limit           int    `mapstructure:"limit"`
	Workers         int    `mapstructure:"workers"`
	Precision       int    `mapstructure:"precision"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Width           int    `mapstructure:"width"`
	Emoji           string `mapstructure:"emoji"`
	Color           string `mapstructure:"color"`
	SnapshotBackend string `mapstructure:"snapshot-backend"`
	SnapshotConnect string `mapstructure:"snapshot-connect"`
	CacheBackend    string `mapstructure:"cache-backend"`
	CacheConnect    string `mapstructure:"cache-connect"`

	// --- Fields from eventsCmd.Flags() ---
	Kind string `mapstructure:"kind"`

	// --- Fields from cohortsCmd.Flags() ---
	Cohorts     int      `mapstructure:"cohorts"`
	CohortSpecs []string `mapstructure:"cohort"`

	// --- Retention tunables (config file / env) ---
	MaxCohortDays    int `mapstructure:"max-cohort-days"`
	MaxCohortUsers   int `mapstructure:"max-cohort-users"`
	RetentionHorizon int `mapstructure:"retention-horizon"`

	// --- Fields from snapshotImportCmd.Flags() ---
	ImportDir string `mapstructure:"dir"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CohortSpecs != nil {
		clone.CohortSpecs = make([]string, len(c.CohortSpecs))
		copy(clone.CohortSpecs, c.CohortSpecs)
	}
	return &clone
}

// CloneWithRange creates a copy of the Config with a new day-key range.
func (c *Config) CloneWithRange(startKey, endKey string) *Config {
	clone := c.Clone()
	clone.RangeStart = startKey
	clone.RangeEnd = endKey
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if err := processTimezone(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDateRange(cfg, input); err != nil {
		return err
	}
	if err := processCohortInputs(cfg, input); err != nil {
		return err
	}
	if err := processRetentionTunables(cfg, input); err != nil {
		return err
	}
	return nil
}

// processTimezone sets the process-wide reference timezone before any
// bucketing happens.
func processTimezone(cfg *Config, input *ConfigRawInput) error {
	zone := strings.TrimSpace(input.Timezone)
	if zone == "" {
		zone = bucket.DefaultZone
	}
	if err := bucket.SetZone(zone); err != nil {
		return err
	}
	cfg.Zone = zone
	return nil
}

// validateSimpleInputs processes and validates all non-range fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ImportDir = input.ImportDir

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Limit validation ---
	if input.Limit <= 0 || input.Limit > MaxTopLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxTopLimit, input.Limit)
	}
	cfg.TopLimit = input.Limit

	// --- 2. Workers validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and output validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 4. Event kind validation ---
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if kind == "" {
		kind = string(schema.AppEventKind)
	}
	cfg.EventKind = schema.EventKind(kind)
	if _, ok := schema.ValidEventKinds[cfg.EventKind]; !ok {
		return fmt.Errorf("invalid event kind '%s'. must be app or bubble", input.Kind)
	}

	// --- 5. Backend validation ---
	return validateBackendConfigs(cfg, input)
}

// validateBackendConfigs validates snapshot and cache backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.SnapshotBackend = schema.DatabaseBackend(strings.ToLower(input.SnapshotBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.SnapshotBackend]; !ok || cfg.SnapshotBackend == schema.NoneBackend {
		return fmt.Errorf("invalid snapshot backend '%s'. must be sqlite, mysql, postgresql", input.SnapshotBackend)
	}
	cfg.SnapshotConnect = input.SnapshotConnect
	if err := ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotConnect); err != nil {
		return err
	}

	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheConnect = input.CacheConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheConnect); err != nil {
		return err
	}

	// Snapshot and cache must not collide on the same SQLite file.
	if cfg.SnapshotBackend == schema.SQLiteBackend && cfg.CacheBackend == schema.SQLiteBackend {
		snapPath := cfg.SnapshotConnect
		if snapPath == "" {
			snapPath = GetSnapshotDBFilePath()
		}
		cachePath := cfg.CacheConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		if snapPath == cachePath {
			return fmt.Errorf("snapshot and cache storage must use different SQLite database files. Both resolve to %q", snapPath)
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// processDateRange resolves the --from/--to inputs into inclusive day keys.
// Inputs accept absolute day keys or relative phrases like "7 days ago".
// The default range is the trailing DefaultRangeDays days ending today.
func processDateRange(cfg *Config, input *ConfigRawInput) error {
	today := bucket.DayKey(cfg.Now)
	defStart, err := bucket.AddDays(today, -DefaultRangeDays)
	if err != nil {
		return err
	}
	cfg.RangeStart = defStart
	cfg.RangeEnd = today

	if input.From != "" {
		key, err := ResolveDayInput(input.From, cfg.Now)
		if err != nil {
			return fmt.Errorf("invalid --from value: %w", err)
		}
		cfg.RangeStart = key
	}
	if input.To != "" {
		key, err := ResolveDayInput(input.To, cfg.Now)
		if err != nil {
			return fmt.Errorf("invalid --to value: %w", err)
		}
		cfg.RangeEnd = key
	}

	if cfg.RangeStart > cfg.RangeEnd {
		return fmt.Errorf("start day (%s) cannot be after end day (%s)", cfg.RangeStart, cfg.RangeEnd)
	}
	return nil
}

// processCohortInputs validates the cohort count and any manual cohort specs.
func processCohortInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Cohorts <= 0 || input.Cohorts > MaxCohortCount {
		return fmt.Errorf("cohorts must be between 1 and %d (received %d)", MaxCohortCount, input.Cohorts)
	}
	cfg.CohortCount = input.Cohorts

	for _, spec := range input.CohortSpecs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		parts := strings.Split(spec, ":")
		if len(parts) != 2 {
			return fmt.Errorf("invalid cohort spec '%s', expected 'start:end' day keys", spec)
		}
		for _, p := range parts {
			if _, err := bucket.ParseDayKey(strings.TrimSpace(p)); err != nil {
				return fmt.Errorf("invalid cohort spec '%s': %w", spec, err)
			}
		}
		cfg.CohortSpecs = append(cfg.CohortSpecs, spec)
	}
	return nil
}

// processRetentionTunables applies the retention guardrail overrides,
// falling back to product defaults.
func processRetentionTunables(cfg *Config, input *ConfigRawInput) error {
	cfg.MaxCohortSpanDays = input.MaxCohortDays
	if cfg.MaxCohortSpanDays == 0 {
		cfg.MaxCohortSpanDays = DefaultMaxCohortSpanDays
	}
	cfg.MaxCohortUsers = input.MaxCohortUsers
	if cfg.MaxCohortUsers == 0 {
		cfg.MaxCohortUsers = DefaultMaxCohortUsers
	}
	cfg.RetentionHorizonDays = input.RetentionHorizon
	if cfg.RetentionHorizonDays == 0 {
		cfg.RetentionHorizonDays = DefaultRetentionHorizonDays
	}

	if cfg.MaxCohortSpanDays < 0 || cfg.MaxCohortUsers < 0 || cfg.RetentionHorizonDays < 0 {
		return fmt.Errorf("retention tunables must be non-negative")
	}
	return nil
}
