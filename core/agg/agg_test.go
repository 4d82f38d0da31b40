package agg

import (
	"testing"
	"time"

	"github.com/endora-app/endoscope/schema"
	"github.com/stretchr/testify/assert"
)

func parisTime(t *testing.T, day string, hour int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	assert.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02", day, loc)
	assert.NoError(t, err)
	return parsed.Add(time.Duration(hour) * time.Hour)
}

func TestBucketByDay(t *testing.T) {
	instants := []time.Time{
		parisTime(t, "2026-01-10", 9),
		parisTime(t, "2026-01-10", 22),
		parisTime(t, "2026-01-11", 1),
	}
	got := BucketByDay(instants)
	assert.Equal(t, map[string]int{"2026-01-10": 2, "2026-01-11": 1}, got)
}

func TestBucketByDayEmptyAndZero(t *testing.T) {
	assert.Empty(t, BucketByDay(nil))

	// Zero instants represent missing timestamps and are dropped.
	got := BucketByDay([]time.Time{{}, parisTime(t, "2026-01-10", 9)})
	assert.Equal(t, map[string]int{"2026-01-10": 1}, got)
}

func TestBucketByHourConservesTotal(t *testing.T) {
	instants := []time.Time{
		parisTime(t, "2026-01-10", 0),
		parisTime(t, "2026-01-10", 9),
		parisTime(t, "2026-01-10", 9),
		parisTime(t, "2026-01-10", 23),
	}
	got := BucketByHour(instants)

	total := 0
	for _, c := range got {
		total += c
	}
	assert.Equal(t, len(instants), total)
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 2, got[9])
	assert.Equal(t, 1, got[23])
}

func TestUniqueCountPerDay(t *testing.T) {
	sessions := []schema.Session{
		{UserID: "u1", StartedAt: parisTime(t, "2026-01-10", 8)},
		{UserID: "u1", StartedAt: parisTime(t, "2026-01-10", 20)}, // same user, same day
		{UserID: "u2", StartedAt: parisTime(t, "2026-01-10", 12)},
		{UserID: "u1", StartedAt: parisTime(t, "2026-01-11", 8)},
		{UserID: "", StartedAt: parisTime(t, "2026-01-11", 9)}, // no entity id
	}
	got := UniqueCountPerDay(sessions,
		func(s schema.Session) string { return s.UserID },
		func(s schema.Session) time.Time { return s.StartedAt })

	assert.Equal(t, map[string]int{"2026-01-10": 2, "2026-01-11": 1}, got)
}

func TestUniqueCountNeverExceedsRawCount(t *testing.T) {
	sessions := []schema.Session{
		{UserID: "u1", StartedAt: parisTime(t, "2026-01-10", 8)},
		{UserID: "u2", StartedAt: parisTime(t, "2026-01-10", 9)},
		{UserID: "u2", StartedAt: parisTime(t, "2026-01-10", 10)},
	}
	unique := UniqueCountPerDay(sessions,
		func(s schema.Session) string { return s.UserID },
		func(s schema.Session) time.Time { return s.StartedAt })
	raw := BucketByDay([]time.Time{sessions[0].StartedAt, sessions[1].StartedAt, sessions[2].StartedAt})

	for day, u := range unique {
		assert.LessOrEqual(t, u, raw[day])
	}
}

func TestTopN(t *testing.T) {
	events := []schema.AppEvent{
		{Name: "a"}, {Name: "a"},
		{Name: "b"},
		{Name: "c"}, {Name: "c"}, {Name: "c"},
	}
	got := TopN(events, 2, func(e schema.AppEvent) string { return e.Name })

	assert.Equal(t, []schema.NameCount{
		{Name: "c", Count: 3},
		{Name: "a", Count: 2},
	}, got)
}

func TestTopNTieBreakIsLexicographic(t *testing.T) {
	events := []schema.AppEvent{
		{Name: "zeta"}, {Name: "alpha"}, {Name: "mid"},
	}
	got := TopN(events, 3, func(e schema.AppEvent) string { return e.Name })

	assert.Equal(t, []schema.NameCount{
		{Name: "alpha", Count: 1},
		{Name: "mid", Count: 1},
		{Name: "zeta", Count: 1},
	}, got)
}

func TestTopNExcludesEmptyKeys(t *testing.T) {
	events := []schema.AppEvent{{Name: ""}, {Name: "a"}}
	got := TopN(events, 10, func(e schema.AppEvent) string { return e.Name })
	assert.Equal(t, []schema.NameCount{{Name: "a", Count: 1}}, got)
}

func TestTopNZeroLimit(t *testing.T) {
	events := []schema.AppEvent{{Name: "a"}}
	assert.Nil(t, TopN(events, 0, func(e schema.AppEvent) string { return e.Name }))
}

func TestSortedDailyCounts(t *testing.T) {
	got := SortedDailyCounts(map[string]int{
		"2026-01-11": 1,
		"2026-01-09": 3,
		"2026-01-10": 2,
	})
	assert.Equal(t, []schema.DailyCount{
		{Day: "2026-01-09", Count: 3},
		{Day: "2026-01-10", Count: 2},
		{Day: "2026-01-11", Count: 1},
	}, got)
}
