package core

import (
	"fmt"
	"time"

	"github.com/endora-app/endoscope/core/bucket"
	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
)

// ComputeRetention builds the day-by-day retention curve for one cohort.
// It is a pure function over the supplied collections: users are filtered
// to those whose signup day falls inside the window, sessions provide each
// user's active-day set.
//
// Guard rejections (oversized window or population) come back as a result
// with Error set, not as a Go error; they are expected, user-correctable
// outcomes. An empty cohort is a valid result with CohortSize 0. Day 0 is
// each user's own signup day, so "day N" is a different calendar date per
// user. A curve point is only emitted for offsets where at least one
// user's target day has already occurred; the percentage denominator is
// always the full original cohort size.
func ComputeRetention(cfg *contract.Config, win schema.CohortWindow, users []schema.User, sessions []schema.Session, now time.Time) schema.RetentionResult {
	result := schema.RetentionResult{
		PeriodStart: win.StartDate,
		PeriodEnd:   win.EndDate,
	}

	spanDays, err := bucket.DaysBetween(win.StartDate, win.EndDate)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if spanDays < 0 {
		result.Error = fmt.Sprintf("cohort window end (%s) precedes start (%s)", win.EndDate, win.StartDate)
		return result
	}
	if spanDays > cfg.MaxCohortSpanDays {
		result.Error = fmt.Sprintf("Narrow date range to compute retention (max %d days)", cfg.MaxCohortSpanDays)
		return result
	}

	// Cohort membership: signup day inside the window. Day keys compare
	// chronologically as strings.
	type member struct {
		id     string
		signup time.Time
	}
	var cohort []member
	for _, u := range users {
		if u.ID == "" || u.CreatedAt.IsZero() {
			continue
		}
		day := bucket.DayKey(u.CreatedAt)
		if day < win.StartDate || day > win.EndDate {
			continue
		}
		signup, err := bucket.ParseDayKey(day)
		if err != nil {
			continue
		}
		cohort = append(cohort, member{id: u.ID, signup: signup})
	}

	result.CohortSize = len(cohort)
	if len(cohort) > cfg.MaxCohortUsers {
		result.Error = fmt.Sprintf("Narrow date range to compute retention (max %d users)", cfg.MaxCohortUsers)
		return result
	}
	if len(cohort) == 0 {
		// Valid "no data" outcome, distinct from the guard rejections.
		return result
	}

	todayKey := bucket.DayKey(now)

	// Sessions are only observable from the cohort start through
	// min(cohortEnd + horizon, today); future retention does not exist yet.
	windowEnd, err := bucket.AddDays(win.EndDate, cfg.RetentionHorizonDays)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	windowEnd = bucket.MinKey(windowEnd, todayKey)

	memberIDs := make(map[string]struct{}, len(cohort))
	for _, m := range cohort {
		memberIDs[m.id] = struct{}{}
	}

	activeDays := make(map[string]map[string]struct{})
	for _, s := range sessions {
		if s.UserID == "" || s.StartedAt.IsZero() {
			continue
		}
		if _, ok := memberIDs[s.UserID]; !ok {
			continue
		}
		day := bucket.DayKey(s.StartedAt)
		if day < win.StartDate || day > windowEnd {
			continue
		}
		if activeDays[s.UserID] == nil {
			activeDays[s.UserID] = make(map[string]struct{})
		}
		activeDays[s.UserID][day] = struct{}{}
	}

	cohortSize := float64(len(cohort))
	for d := 0; d <= cfg.RetentionHorizonDays; d++ {
		retained := 0
		usersWithDataAvailable := 0
		for _, m := range cohort {
			targetDay := m.signup.AddDate(0, 0, d).Format(bucket.DayKeyFormat)
			if targetDay > todayKey {
				// This user-day has not occurred; it must not read as churn.
				continue
			}
			usersWithDataAvailable++
			if _, ok := activeDays[m.id][targetDay]; ok {
				retained++
			}
		}
		if usersWithDataAvailable == 0 {
			continue
		}
		result.Curve = append(result.Curve, schema.RetentionPoint{
			Day:          d,
			RetentionPct: schema.Round1(float64(retained) / cohortSize * 100),
		})
	}

	return result
}
