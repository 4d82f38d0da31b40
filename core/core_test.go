package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/endora-app/endoscope/internal/contract"
	"github.com/endora-app/endoscope/schema"
)

func queryConfig() *contract.Config {
	return &contract.Config{
		RangeStart:           "2026-08-01",
		RangeEnd:             "2026-08-31",
		Now:                  parisTime(2026, 9, 1, 12),
		Zone:                 "Europe/Paris",
		TopLimit:             contract.DefaultTopLimit,
		Workers:              2,
		EventKind:            schema.AppEventKind,
		CohortCount:          contract.DefaultCohortCount,
		MaxCohortSpanDays:    contract.DefaultMaxCohortSpanDays,
		MaxCohortUsers:       contract.DefaultMaxCohortUsers,
		RetentionHorizonDays: contract.DefaultRetentionHorizonDays,
	}
}

func TestGetOverviewResult(t *testing.T) {
	cfg := queryConfig()

	src := &contract.MockRecordSource{}
	src.On("FetchSessions", mock.Anything, "2026-08-01", "2026-08-31").Return([]schema.Session{
		{UserID: "u1", StartedAt: parisTime(2026, 8, 10, 9), DurationMs: 60_000},
		{UserID: "u2", StartedAt: parisTime(2026, 8, 10, 10), DurationMs: 30_000},
	}, nil)
	src.On("FetchUsers", mock.Anything).Return([]schema.User{
		{ID: "u1", CreatedAt: parisTime(2026, 7, 1, 10)},
		{ID: "u2", CreatedAt: parisTime(2026, 8, 5, 10)},
	}, nil)

	result, err := GetOverviewResult(context.Background(), cfg, src, nil)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Summary.TotalSessions)
	assert.Equal(t, 1, result.Summary.ReturningUsers)
	src.AssertExpectations(t)
}

func TestGetOverviewResultFetchError(t *testing.T) {
	cfg := queryConfig()

	src := &contract.MockRecordSource{}
	src.On("FetchSessions", mock.Anything, "2026-08-01", "2026-08-31").Return(nil, errors.New("connection refused"))

	_, err := GetOverviewResult(context.Background(), cfg, src, nil)

	assert.ErrorContains(t, err, "fetch sessions")
}

func TestGetRetentionResult(t *testing.T) {
	cfg := queryConfig()
	cfg.RangeStart = "2026-08-01"
	cfg.RangeEnd = "2026-08-15"

	src := &contract.MockRecordSource{}
	src.On("FetchUsersCreatedBetween", mock.Anything, "2026-08-01", "2026-08-15").Return([]schema.User{
		{ID: "u1", CreatedAt: parisTime(2026, 8, 2, 10)},
	}, nil)
	// Sessions are fetched through end + horizon, capped at today.
	src.On("FetchSessions", mock.Anything, "2026-08-01", "2026-09-01").Return([]schema.Session{
		{UserID: "u1", StartedAt: parisTime(2026, 8, 2, 11)},
		{UserID: "u1", StartedAt: parisTime(2026, 8, 3, 11)},
	}, nil)

	result, err := GetRetentionResult(context.Background(), cfg, src, nil)

	assert.NoError(t, err)
	assert.Empty(t, result.Error)
	assert.Equal(t, 1, result.CohortSize)
	assert.Equal(t, float64(100), result.Curve[0].RetentionPct)
	assert.Equal(t, float64(100), result.Curve[1].RetentionPct)
	src.AssertExpectations(t)
}

func TestGetRetentionResultGuardInsideResult(t *testing.T) {
	cfg := queryConfig()
	cfg.RangeStart = "2026-07-01"
	cfg.RangeEnd = "2026-08-31"

	src := &contract.MockRecordSource{}
	src.On("FetchUsersCreatedBetween", mock.Anything, "2026-07-01", "2026-08-31").Return([]schema.User{}, nil)
	src.On("FetchSessions", mock.Anything, mock.Anything, mock.Anything).Return([]schema.Session{}, nil).Maybe()

	result, err := GetRetentionResult(context.Background(), cfg, src, nil)

	assert.NoError(t, err)
	assert.Equal(t, "Narrow date range to compute retention (max 30 days)", result.Error)
}

func TestGetCohortComparisonManualSpecs(t *testing.T) {
	cfg := queryConfig()
	cfg.CohortSpecs = []string{"2026-07-01:2026-07-10", "2026-08-01:2026-08-10"}

	src := &contract.MockRecordSource{}
	src.On("FetchUsersCreatedBetween", mock.Anything, "2026-07-01", "2026-07-10").Return([]schema.User{
		{ID: "july", CreatedAt: parisTime(2026, 7, 2, 10)},
	}, nil)
	src.On("FetchUsersCreatedBetween", mock.Anything, "2026-08-01", "2026-08-10").Return([]schema.User{
		{ID: "august", CreatedAt: parisTime(2026, 8, 2, 10)},
	}, nil)
	src.On("FetchSessions", mock.Anything, "2026-07-01", "2026-08-09").Return([]schema.Session{
		{UserID: "july", StartedAt: parisTime(2026, 7, 2, 11)},
	}, nil)
	src.On("FetchSessions", mock.Anything, "2026-08-01", "2026-09-01").Return([]schema.Session{
		{UserID: "august", StartedAt: parisTime(2026, 8, 2, 11)},
	}, nil)

	result, err := GetCohortComparison(context.Background(), cfg, src, nil)

	assert.NoError(t, err)
	assert.Len(t, result.Cohorts, 2)
	assert.Empty(t, result.Cohorts[0].Result.Error)
	assert.Empty(t, result.Cohorts[1].Result.Error)
	assert.NotEmpty(t, result.Merged)
	// Both cohorts retained their single user on day 0.
	assert.Equal(t, float64(100), result.Merged[0].Values[result.Cohorts[0].Cohort.Label])
	assert.Equal(t, float64(100), result.Merged[0].Values[result.Cohorts[1].Cohort.Label])
	src.AssertExpectations(t)
}

func TestGetCohortComparisonIsolatesFetchFailures(t *testing.T) {
	cfg := queryConfig()
	cfg.CohortSpecs = []string{"2026-07-01:2026-07-10", "2026-08-01:2026-08-10"}

	src := &contract.MockRecordSource{}
	src.On("FetchUsersCreatedBetween", mock.Anything, "2026-07-01", "2026-07-10").Return(nil, errors.New("connection reset"))
	src.On("FetchUsersCreatedBetween", mock.Anything, "2026-08-01", "2026-08-10").Return([]schema.User{
		{ID: "august", CreatedAt: parisTime(2026, 8, 2, 10)},
	}, nil)
	src.On("FetchSessions", mock.Anything, "2026-08-01", "2026-09-01").Return([]schema.Session{
		{UserID: "august", StartedAt: parisTime(2026, 8, 2, 11)},
	}, nil)

	result, err := GetCohortComparison(context.Background(), cfg, src, nil)

	assert.NoError(t, err)
	assert.Contains(t, result.Cohorts[0].Result.Error, "fetch cohort users")
	assert.Empty(t, result.Cohorts[1].Result.Error)
	// The failing cohort stays out of the merged rows.
	for _, row := range result.Merged {
		assert.NotContains(t, row.Values, result.Cohorts[0].Cohort.Label)
	}
}

func TestGetCohortComparisonRejectsBadManualSpec(t *testing.T) {
	cfg := queryConfig()
	cfg.CohortSpecs = []string{"2026-07-10:2026-07-01"}

	src := &contract.MockRecordSource{}

	_, err := GetCohortComparison(context.Background(), cfg, src, nil)

	assert.Error(t, err)
}

func TestGetEventsResultApp(t *testing.T) {
	cfg := queryConfig()

	src := &contract.MockRecordSource{}
	src.On("FetchAppEvents", mock.Anything, "2026-08-01", "2026-08-31").Return([]schema.AppEvent{
		{UserID: "u1", Name: "open_app", CreatedAt: parisTime(2026, 8, 10, 9)},
		{UserID: "u2", Name: "open_app", CreatedAt: parisTime(2026, 8, 10, 10)},
		{UserID: "u1", Name: "share", CreatedAt: parisTime(2026, 8, 11, 9)},
	}, nil)

	result, err := GetEventsResult(context.Background(), cfg, src, nil)

	assert.NoError(t, err)
	assert.Equal(t, schema.AppEventKind, result.Kind)
	assert.Equal(t, 3, result.TotalEvents)
	assert.Equal(t, []schema.NameCount{{Name: "open_app", Count: 2}, {Name: "share", Count: 1}}, result.Top)
	assert.Equal(t, 2, result.ByHour[9])
	src.AssertExpectations(t)
}

func TestGetEventsResultBubbleRanksByScreen(t *testing.T) {
	cfg := queryConfig()
	cfg.EventKind = schema.BubbleEventKind

	src := &contract.MockRecordSource{}
	src.On("FetchBubbleEvents", mock.Anything, "2026-08-01", "2026-08-31").Return([]schema.BubbleEvent{
		{UserID: "u1", Event: "tap", Screen: "home", CreatedAt: parisTime(2026, 8, 10, 9)},
		{UserID: "u1", Event: "tap", Screen: "settings", CreatedAt: parisTime(2026, 8, 10, 9)},
		{UserID: "u2", Event: "swipe", Screen: "home", CreatedAt: parisTime(2026, 8, 10, 9)},
	}, nil)

	result, err := GetEventsResult(context.Background(), cfg, src, nil)

	assert.NoError(t, err)
	assert.Equal(t, []schema.NameCount{{Name: "home", Count: 2}, {Name: "settings", Count: 1}}, result.Top)
}
