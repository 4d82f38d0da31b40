// Package core has core logic for activity, retention and cohort analytics.
package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/endora-app/endoscope/core/agg"
	"github.com/endora-app/endoscope/core/bucket"
	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/internal/outwriter"
	"github.com/endora-app/endoscope/schema"
)

// ExecutorFunc defines the function signature for executing different query modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error

// ExecuteOverview runs the activity overview query and prints results to stdout.
// It serves as the main entry point for the 'overview' command.
func ExecuteOverview(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogQueryHeader(cfg, "Activity overview")
	}
	result, err := GetOverviewResult(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintOverview(result, cfg, duration)
}

// GetOverviewResult computes the activity overview for the configured range,
// going through the result cache when one is available.
func GetOverviewResult(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (*schema.OverviewResult, error) {
	key := generateCacheKey("overview", cfg)
	return cachedResult(mgr, key, func() (*schema.OverviewResult, error) {
		sessions, err := src.FetchSessions(ctx, cfg.RangeStart, cfg.RangeEnd)
		if err != nil {
			return nil, fmt.Errorf("fetch sessions: %w", err)
		}
		users, err := src.FetchUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch users: %w", err)
		}
		return ComputeOverview(sessions, users, cfg.RangeStart, cfg.RangeEnd, cfg.Now), nil
	})
}

// ExecuteRetention runs the single-cohort retention query, treating the
// configured date range as the cohort window, and prints the curve.
// It serves as the main entry point for the 'retention' command.
func ExecuteRetention(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogQueryHeader(cfg, "Retention curve")
	}
	result, err := GetRetentionResult(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintRetention(result, cfg, duration)
}

// GetRetentionResult computes retention for the configured range as one
// cohort. Guard rejections surface inside the result, not as errors; only
// fetch failures come back as errors.
func GetRetentionResult(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (*schema.RetentionResult, error) {
	win, err := NewCustomCohort(0, cfg.RangeStart, cfg.RangeEnd)
	if err != nil {
		return nil, err
	}
	key := generateCacheKey("retention", cfg,
		win.StartDate, win.EndDate,
		strconv.Itoa(cfg.MaxCohortSpanDays),
		strconv.Itoa(cfg.MaxCohortUsers),
		strconv.Itoa(cfg.RetentionHorizonDays),
	)
	return cachedResult(mgr, key, func() (*schema.RetentionResult, error) {
		result, err := computeCohortRetention(ctx, cfg, src, win)
		if err != nil {
			return nil, err
		}
		return &result, nil
	})
}

// ExecuteCohorts runs the multi-cohort comparison and prints the merged grid.
// It serves as the main entry point for the 'cohorts' command.
func ExecuteCohorts(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogQueryHeader(cfg, "Cohort comparison")
	}
	result, err := GetCohortComparison(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintCohorts(result, cfg, duration)
}

// GetCohortComparison resolves the cohort windows (manual specs when given,
// otherwise smart generation from the range), computes each cohort's curve
// concurrently and merges the curves into chart-ready rows.
//
// A cohort whose fetch or computation fails carries the failure in its
// Result.Error; one bad cohort does not break the comparison.
func GetCohortComparison(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (*schema.CohortComparison, error) {
	windows, err := resolveCohortWindows(cfg)
	if err != nil {
		return nil, err
	}

	keyParts := []string{strconv.Itoa(cfg.MaxCohortSpanDays), strconv.Itoa(cfg.MaxCohortUsers), strconv.Itoa(cfg.RetentionHorizonDays)}
	for _, w := range windows {
		keyParts = append(keyParts, w.StartDate+".."+w.EndDate)
	}
	key := generateCacheKey("cohorts", cfg, keyParts...)

	return cachedResult(mgr, key, func() (*schema.CohortComparison, error) {
		cohorts := make([]schema.CohortRetention, len(windows))

		// Worker pool over cohorts. Each goroutine writes to a unique
		// index, which is safe without locking.
		sem := make(chan struct{}, max(cfg.Workers, 1))
		var wg sync.WaitGroup
		for i, win := range windows {
			wg.Add(1)
			go func(idx int, w schema.CohortWindow) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				result, err := computeCohortRetention(ctx, cfg, src, w)
				if err != nil {
					result = schema.RetentionResult{
						PeriodStart: w.StartDate,
						PeriodEnd:   w.EndDate,
						Error:       err.Error(),
					}
				}
				cohorts[idx] = schema.CohortRetention{Cohort: w, Result: result}
			}(i, win)
		}
		wg.Wait()

		return &schema.CohortComparison{
			Cohorts: cohorts,
			Merged:  MergeRetentionCurves(cohorts),
		}, nil
	})
}

// ExecuteEvents runs the top-events query for the configured event kind.
// It serves as the main entry point for the 'events' command.
func ExecuteEvents(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		outwriter.LogQueryHeader(cfg, "Top events")
	}
	result, err := GetEventsResult(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.PrintEvents(result, cfg, duration)
}

// GetEventsResult counts and ranks events of the configured kind inside
// the range. App events rank by event name, bubble events by screen.
func GetEventsResult(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) (*schema.EventsResult, error) {
	key := generateCacheKey("events", cfg, string(cfg.EventKind), strconv.Itoa(cfg.TopLimit))
	return cachedResult(mgr, key, func() (*schema.EventsResult, error) {
		result := &schema.EventsResult{
			Kind:       cfg.EventKind,
			RangeStart: cfg.RangeStart,
			RangeEnd:   cfg.RangeEnd,
		}

		switch cfg.EventKind {
		case schema.BubbleEventKind:
			events, err := src.FetchBubbleEvents(ctx, cfg.RangeStart, cfg.RangeEnd)
			if err != nil {
				return nil, fmt.Errorf("fetch bubble events: %w", err)
			}
			result.TotalEvents = len(events)
			result.Top = agg.TopN(events, cfg.TopLimit, func(e schema.BubbleEvent) string { return e.Screen })
			result.ByHour = agg.BucketByHour(eventTimes(events, func(e schema.BubbleEvent) time.Time { return e.CreatedAt }))

		default:
			events, err := src.FetchAppEvents(ctx, cfg.RangeStart, cfg.RangeEnd)
			if err != nil {
				return nil, fmt.Errorf("fetch app events: %w", err)
			}
			result.TotalEvents = len(events)
			result.Top = agg.TopN(events, cfg.TopLimit, func(e schema.AppEvent) string { return e.Name })
			result.ByHour = agg.BucketByHour(eventTimes(events, func(e schema.AppEvent) time.Time { return e.CreatedAt }))
		}

		return result, nil
	})
}

// computeCohortRetention fetches the collections one cohort needs and runs
// the retention engine over them. Sessions are only fetched through the
// observable window so oversized cohorts never pull data they cannot use.
func computeCohortRetention(ctx context.Context, cfg *contract.Config, src contract.RecordSource, win schema.CohortWindow) (schema.RetentionResult, error) {
	users, err := src.FetchUsersCreatedBetween(ctx, win.StartDate, win.EndDate)
	if err != nil {
		return schema.RetentionResult{}, fmt.Errorf("fetch cohort users: %w", err)
	}

	sessionEnd, err := bucket.AddDays(win.EndDate, cfg.RetentionHorizonDays)
	if err != nil {
		return schema.RetentionResult{}, err
	}
	sessionEnd = bucket.MinKey(sessionEnd, bucket.DayKey(cfg.Now))

	var sessions []schema.Session
	if win.StartDate <= sessionEnd {
		sessions, err = src.FetchSessions(ctx, win.StartDate, sessionEnd)
		if err != nil {
			return schema.RetentionResult{}, fmt.Errorf("fetch cohort sessions: %w", err)
		}
	}

	return ComputeRetention(cfg, win, users, sessions, cfg.Now), nil
}

// resolveCohortWindows turns the configuration into concrete cohort
// windows. Manual specs are validated pre-flight; smart windows are not,
// since long-range granularities legitimately exceed the span guard and
// report that per cohort.
func resolveCohortWindows(cfg *contract.Config) ([]schema.CohortWindow, error) {
	if len(cfg.CohortSpecs) == 0 {
		return GenerateSmartCohorts(cfg.RangeStart, cfg.RangeEnd, cfg.CohortCount)
	}

	windows := make([]schema.CohortWindow, 0, len(cfg.CohortSpecs))
	for i, spec := range cfg.CohortSpecs {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid cohort spec '%s', expected 'start:end' day keys", spec)
		}
		win, err := NewCustomCohort(i, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid cohort spec '%s': %w", spec, err)
		}
		if err := ValidateCohortWindow(win, cfg.MaxCohortSpanDays); err != nil {
			return nil, err
		}
		windows = append(windows, win)
	}
	return windows, nil
}

// eventTimes projects a record slice onto its timestamps.
func eventTimes[T any](records []T, at func(T) time.Time) []time.Time {
	out := make([]time.Time, 0, len(records))
	for _, r := range records {
		out = append(out, at(r))
	}
	return out
}
