package core

import (
	"math"
	"time"

	"github.com/endora-app/endoscope/core/agg"
	"github.com/endora-app/endoscope/core/bucket"
	"github.com/endora-app/endoscope/schema"
)

// Trailing window lengths for the active-user KPIs.
const (
	wauWindowDays = 7
	mauWindowDays = 30
)

// ComputeOverview derives the activity overview from a session working set
// and the user collection. The working set is everything fetched for the
// queried range; DAU/WAU/MAU are anchored to now, returning users and the
// averages to the range itself. Empty inputs yield zero-valued results,
// never an error.
func ComputeOverview(sessions []schema.Session, users []schema.User, rangeStart, rangeEnd string, now time.Time) *schema.OverviewResult {
	summary := schema.ActivitySummary{
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
		TotalSessions: len(sessions),
	}

	dayStart := bucket.StartOfDay(now)
	weekStart := dayStart.AddDate(0, 0, -wauWindowDays)
	monthStart := dayStart.AddDate(0, 0, -mauWindowDays)

	daily := make(map[string]struct{})
	weekly := make(map[string]struct{})
	monthly := make(map[string]struct{})
	sessionUsers := make(map[string]struct{})

	var totalDurationMs float64
	perUserDay := make(map[string]map[string]int64)

	starts := make([]time.Time, 0, len(sessions))

	for _, s := range sessions {
		if s.StartedAt.IsZero() {
			continue
		}
		starts = append(starts, s.StartedAt)

		if s.UserID != "" {
			sessionUsers[s.UserID] = struct{}{}
			if !s.StartedAt.Before(dayStart) {
				daily[s.UserID] = struct{}{}
			}
			if !s.StartedAt.Before(weekStart) {
				weekly[s.UserID] = struct{}{}
			}
			if !s.StartedAt.Before(monthStart) {
				monthly[s.UserID] = struct{}{}
			}

			day := bucket.DayKey(s.StartedAt)
			if perUserDay[s.UserID] == nil {
				perUserDay[s.UserID] = make(map[string]int64)
			}
			perUserDay[s.UserID][day] += s.DurationMs
		}

		totalDurationMs += float64(s.DurationMs)
	}

	summary.CurrentDAU = len(daily)
	summary.WeeklyActive = len(weekly)
	summary.MonthlyActive = len(monthly)
	summary.StickinessPct = stickiness(summary.CurrentDAU, summary.MonthlyActive)

	if len(sessions) > 0 {
		summary.AvgSessionMs = totalDurationMs / float64(len(sessions))
	}
	summary.AvgDailyActiveMs = avgDailyActiveMs(perUserDay)
	summary.ReturningUsers = returningUsers(users, sessionUsers, rangeStart)

	return &schema.OverviewResult{
		Summary: summary,
		ActiveUsersByDay: agg.SortedDailyCounts(agg.UniqueCountPerDay(sessions,
			func(s schema.Session) string { return s.UserID },
			func(s schema.Session) time.Time { return s.StartedAt })),
		SessionsByHour: agg.BucketByHour(starts),
	}
}

// stickiness is round(dau/mau*100) clamped to 100, and 0 when mau is 0.
func stickiness(dau, mau int) int {
	if mau == 0 {
		return 0
	}
	pct := int(math.Round(float64(dau) / float64(mau) * 100))
	return min(pct, 100)
}

// avgDailyActiveMs averages summed session time over user-day pairs with
// positive activity. Pairs with zero time are excluded from the
// denominator, not counted as zero.
func avgDailyActiveMs(perUserDay map[string]map[string]int64) float64 {
	var total float64
	var groups int
	for _, days := range perUserDay {
		for _, ms := range days {
			if ms > 0 {
				total += float64(ms)
				groups++
			}
		}
	}
	if groups == 0 {
		return 0
	}
	return total / float64(groups)
}

// returningUsers counts users created strictly before the range start who
// appear in the session working set.
func returningUsers(users []schema.User, sessionUsers map[string]struct{}, rangeStart string) int {
	count := 0
	for _, u := range users {
		if u.ID == "" || u.CreatedAt.IsZero() {
			continue
		}
		if _, active := sessionUsers[u.ID]; !active {
			continue
		}
		if bucket.DayKey(u.CreatedAt) < rangeStart {
			count++
		}
	}
	return count
}
