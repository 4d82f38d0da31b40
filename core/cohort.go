package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/endora-app/endoscope/core/bucket"
	"github.com/endora-app/endoscope/schema"
)

// Range-length thresholds for picking a cohort granularity.
const (
	weeklyMaxRangeDays  = 14
	monthlyMaxRangeDays = 90
)

// PickGranularity chooses the cohort period length for a date range:
// short ranges get weekly cohorts, medium ranges calendar months, long
// ranges calendar quarters.
func PickGranularity(spanDays int) schema.CohortGranularity {
	switch {
	case spanDays <= weeklyMaxRangeDays:
		return schema.WeeklyCohorts
	case spanDays <= monthlyMaxRangeDays:
		return schema.MonthlyCohorts
	default:
		return schema.QuarterlyCohorts
	}
}

// GenerateSmartCohorts partitions the trailing end of a date range into
// count cohort windows. Periods are walked backward from the range end and
// returned oldest first, each with a deterministic id and a palette color
// assigned by position.
func GenerateSmartCohorts(startKey, endKey string, count int) ([]schema.CohortWindow, error) {
	if count <= 0 {
		return nil, fmt.Errorf("cohort count must be positive (received %d)", count)
	}
	spanDays, err := bucket.DaysBetween(startKey, endKey)
	if err != nil {
		return nil, err
	}
	if spanDays < 0 {
		return nil, fmt.Errorf("range end (%s) precedes start (%s)", endKey, startKey)
	}
	end, err := bucket.ParseDayKey(endKey)
	if err != nil {
		return nil, err
	}

	out := make([]schema.CohortWindow, 0, count)
	appendWindow := func(start, finish time.Time, id, label string) {
		out = append(out, schema.CohortWindow{
			ID:        id,
			Label:     label,
			StartDate: start.Format(bucket.DayKeyFormat),
			EndDate:   finish.Format(bucket.DayKeyFormat),
			Color:     schema.CohortColor(len(out)),
		})
	}

	switch PickGranularity(spanDays) {
	case schema.WeeklyCohorts:
		anchor := startOfWeek(end)
		for i := count - 1; i >= 0; i-- {
			ws := anchor.AddDate(0, 0, -7*i)
			appendWindow(ws, ws.AddDate(0, 0, 6),
				"cohort-week-"+ws.Format(bucket.DayKeyFormat),
				"Week of "+ws.Format("Jan 2"))
		}

	case schema.MonthlyCohorts:
		anchor := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, bucket.Zone())
		for i := count - 1; i >= 0; i-- {
			ms := anchor.AddDate(0, -i, 0)
			appendWindow(ms, ms.AddDate(0, 1, -1),
				fmt.Sprintf("cohort-%d-%02d", ms.Year(), int(ms.Month())),
				ms.Format("Jan 2006"))
		}

	default: // quarterly
		q := (int(end.Month()) - 1) / 3
		anchor := time.Date(end.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, bucket.Zone())
		for i := count - 1; i >= 0; i-- {
			qs := anchor.AddDate(0, -3*i, 0)
			qn := (int(qs.Month())-1)/3 + 1
			appendWindow(qs, qs.AddDate(0, 3, -1),
				fmt.Sprintf("cohort-Q%d-%d", qn, qs.Year()),
				fmt.Sprintf("Q%d %d", qn, qs.Year()))
		}
	}

	return out, nil
}

// NewCustomCohort builds a cohort window from explicit day keys, labeled
// with its date range.
func NewCustomCohort(index int, startKey, endKey string) (schema.CohortWindow, error) {
	start, err := bucket.ParseDayKey(startKey)
	if err != nil {
		return schema.CohortWindow{}, err
	}
	end, err := bucket.ParseDayKey(endKey)
	if err != nil {
		return schema.CohortWindow{}, err
	}
	return schema.CohortWindow{
		ID:        "cohort-custom-" + startKey,
		Label:     start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006"),
		StartDate: startKey,
		EndDate:   endKey,
		Color:     schema.CohortColor(index),
	}, nil
}

// ValidateCohortWindow is the pre-flight check for user-defined cohorts:
// the start must strictly precede the end and the span must not exceed the
// engine's own guard. It avoids paying a guard-rejection round trip, but
// the engine still enforces its limits independently.
func ValidateCohortWindow(win schema.CohortWindow, maxSpanDays int) error {
	spanDays, err := bucket.DaysBetween(win.StartDate, win.EndDate)
	if err != nil {
		return err
	}
	if spanDays <= 0 {
		return fmt.Errorf("cohort start date must be before end date (%s..%s)", win.StartDate, win.EndDate)
	}
	if spanDays > maxSpanDays {
		return fmt.Errorf("cohort window cannot exceed %d days (received %d)", maxSpanDays, spanDays)
	}
	return nil
}

// MergeRetentionCurves joins per-cohort curves into chart-ready rows keyed
// by day offset. The join is sparse: a cohort contributes only the days it
// has points for, and cohorts carrying an error or an empty curve
// contribute nothing without breaking the merge for the others.
func MergeRetentionCurves(cohorts []schema.CohortRetention) []schema.MergedRetentionRow {
	byDay := make(map[int]map[string]float64)
	for _, c := range cohorts {
		if c.Result.Error != "" || len(c.Result.Curve) == 0 {
			continue
		}
		for _, p := range c.Result.Curve {
			if byDay[p.Day] == nil {
				byDay[p.Day] = make(map[string]float64)
			}
			byDay[p.Day][c.Cohort.Label] = p.RetentionPct
		}
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	out := make([]schema.MergedRetentionRow, 0, len(days))
	for _, day := range days {
		out = append(out, schema.MergedRetentionRow{Day: day, Values: byDay[day]})
	}
	return out
}

// startOfWeek returns the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}
