package schema

// ActivitySummary holds the engagement KPIs for one reporting window.
// DAU/WAU/MAU are computed relative to the moment of invocation, not the
// queried range; returning users and the averages are range-relative.
type ActivitySummary struct {
	RangeStart string `json:"rangeStart"` // day key, inclusive
	RangeEnd   string `json:"rangeEnd"`   // day key, inclusive

	CurrentDAU    int `json:"currentDau"`
	WeeklyActive  int `json:"weeklyActiveUsers"`
	MonthlyActive int `json:"monthlyActiveUsers"`

	// StickinessPct is round(DAU/MAU*100), clamped to 100, and 0 when MAU is 0.
	StickinessPct int `json:"stickinessPct"`

	// ReturningUsers counts users created strictly before the range start
	// who had at least one session inside the range.
	ReturningUsers int `json:"returningUsers"`

	TotalSessions int `json:"totalSessions"`

	// AvgSessionMs is the simple mean of session durations, no filtering.
	AvgSessionMs float64 `json:"avgSessionMs"`

	// AvgDailyActiveMs averages summed durations over user-day pairs with
	// positive activity; zero-activity pairs are excluded from the denominator.
	AvgDailyActiveMs float64 `json:"avgDailyActiveMs"`
}

// DailyCount is one day's value in a per-day series, keyed by day key.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// OverviewResult is the full activity overview: KPIs plus the chart series.
type OverviewResult struct {
	Summary          ActivitySummary `json:"summary"`
	ActiveUsersByDay []DailyCount    `json:"activeUsersByDay"`
	SessionsByHour   [24]int         `json:"sessionsByHour"`
}
