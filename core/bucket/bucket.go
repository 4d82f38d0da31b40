// Package bucket normalizes instants to day and hour keys in the reference
// timezone. All bucketing in the analytics layer goes through this package
// so that instants on the same wall-clock day collapse to the same key
// regardless of the host timezone or how a record was stored.
package bucket

import (
	"fmt"
	"math"
	"sync"
	"time"
	_ "time/tzdata" // embedded zone database so Europe/Paris resolves everywhere
)

// DayKeyFormat is the canonical day key layout.
const DayKeyFormat = "2006-01-02"

// DefaultZone is the reference timezone the product reports in.
const DefaultZone = "Europe/Paris"

var (
	zoneMu sync.RWMutex
	zone   = mustLoadZone(DefaultZone)
)

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// time/tzdata is embedded, so this only happens for a bad name.
		return time.UTC
	}
	return loc
}

// SetZone changes the reference timezone for the whole process. It is meant
// to be called once from configuration before any computation runs.
func SetZone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	zoneMu.Lock()
	zone = loc
	zoneMu.Unlock()
	return nil
}

// Zone returns the current reference timezone.
func Zone() *time.Location {
	zoneMu.RLock()
	defer zoneMu.RUnlock()
	return zone
}

// DayKey formats an instant as its calendar day in the reference timezone.
func DayKey(t time.Time) string {
	return t.In(Zone()).Format(DayKeyFormat)
}

// HourOf returns the hour of day (0-23) of an instant in the reference timezone.
func HourOf(t time.Time) int {
	return t.In(Zone()).Hour()
}

// ParseDayKey parses a day key into midnight of that day in the reference
// timezone.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyFormat, key, Zone())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// AddDays shifts a day key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDayKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DayKeyFormat), nil
}

// DaysBetween returns the calendar-day difference to - from. Negative when
// to precedes from.
func DaysBetween(from, to string) (int, error) {
	start, err := ParseDayKey(from)
	if err != nil {
		return 0, err
	}
	end, err := ParseDayKey(to)
	if err != nil {
		return 0, err
	}
	// Round instead of truncate: a DST transition makes a calendar day
	// 23 or 25 hours long in the reference timezone.
	return int(math.Round(end.Sub(start).Hours() / 24)), nil
}

// StartOfDay returns midnight of the instant's day in the reference timezone.
func StartOfDay(t time.Time) time.Time {
	local := t.In(Zone())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone())
}

// MinKey returns the lexicographically smaller day key, which is also the
// chronologically earlier one for the canonical layout.
func MinKey(a, b string) string {
	if a < b {
		return a
	}
	return b
}
