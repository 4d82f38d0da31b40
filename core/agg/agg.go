// Package agg has generic aggregation primitives over timestamped records.
package agg

import (
	"sort"
	"time"

	"github.com/endora-app/endoscope/core/bucket"
	"github.com/endora-app/endoscope/schema"
)

// BucketByDay counts instants per day key. Zero instants (records without a
// resolvable timestamp) are excluded; every other instant lands in exactly
// one bucket.
func BucketByDay(instants []time.Time) map[string]int {
	out := make(map[string]int)
	for _, t := range instants {
		if t.IsZero() {
			continue
		}
		out[bucket.DayKey(t)]++
	}
	return out
}

// BucketByHour counts instants per hour of day in the reference timezone.
func BucketByHour(instants []time.Time) [24]int {
	var out [24]int
	for _, t := range instants {
		if t.IsZero() {
			continue
		}
		out[bucket.HourOf(t)]++
	}
	return out
}

// UniqueCountPerDay counts distinct entities per day key. Two records with
// the same entity id on the same day count once. Records with an empty id
// or zero instant are excluded.
func UniqueCountPerDay[T any](records []T, entityID func(T) string, at func(T) time.Time) map[string]int {
	seen := make(map[string]map[string]struct{})
	for _, r := range records {
		id := entityID(r)
		t := at(r)
		if id == "" || t.IsZero() {
			continue
		}
		day := bucket.DayKey(t)
		if seen[day] == nil {
			seen[day] = make(map[string]struct{})
		}
		seen[day][id] = struct{}{}
	}

	out := make(map[string]int, len(seen))
	for day, ids := range seen {
		out[day] = len(ids)
	}
	return out
}

// TopN counts records grouped by key and returns the n largest groups,
// ordered by count descending. Equal counts tie-break lexicographically
// ascending by name so results are deterministic. Records with an empty
// key are excluded.
func TopN[T any](records []T, n int, key func(T) string) []schema.NameCount {
	if n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		counts[k]++
	}

	out := make([]schema.NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, schema.NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// SortedDailyCounts converts a per-day mapping into a day-ordered series.
// Lexicographic order on day keys is chronological order.
func SortedDailyCounts(byDay map[string]int) []schema.DailyCount {
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]schema.DailyCount, 0, len(days))
	for _, day := range days {
		out = append(out, schema.DailyCount{Day: day, Count: byDay[day]})
	}
	return out
}
