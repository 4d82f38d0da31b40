package schema

// CohortWindow defines one cohort: the users created between StartDate and
// EndDate inclusive (day keys in the reference timezone).
type CohortWindow struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartDate string `json:"startDate"` // inclusive day key
	EndDate   string `json:"endDate"`   // inclusive day key
	Color     string `json:"color"`
}

// RetentionPoint is one emitted point of a retention curve. Day is the
// offset from each user's individual signup day; RetentionPct is relative
// to the full original cohort size.
type RetentionPoint struct {
	Day          int     `json:"day"`
	RetentionPct float64 `json:"retentionPct"`
}

// RetentionResult is the outcome of a single cohort retention computation.
// Guard rejections populate Error and leave Curve empty; an empty cohort
// yields CohortSize 0 with no error. The curve may have gaps: days with no
// observable data are omitted, never reported as 0%.
type RetentionResult struct {
	Curve       []RetentionPoint `json:"curve"`
	CohortSize  int              `json:"cohortSize"`
	PeriodStart string           `json:"periodStart"`
	PeriodEnd   string           `json:"periodEnd"`
	Error       string           `json:"error,omitempty"`
}

// CohortRetention pairs a cohort definition with its computed curve.
type CohortRetention struct {
	Cohort CohortWindow    `json:"cohort"`
	Result RetentionResult `json:"result"`
}

// MergedRetentionRow is one row of the overlay chart: a day offset and the
// retention percentage per cohort label. The join is sparse; a cohort with
// no point at this day is simply absent from Values.
type MergedRetentionRow struct {
	Day    int                `json:"day"`
	Values map[string]float64 `json:"values"`
}

// CohortComparison is the full multi-cohort output: the individual results
// in cohort order plus the merged chart-ready rows.
type CohortComparison struct {
	Cohorts []CohortRetention    `json:"cohorts"`
	Merged  []MergedRetentionRow `json:"merged"`
}
