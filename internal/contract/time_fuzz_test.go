package contract

import (
	"testing"
	"time"

	"github.com/endora-app/endoscope/core/bucket"
)

// FuzzResolveDayInput fuzzes the day-input parser with arbitrary strings.
func FuzzResolveDayInput(f *testing.F) {
	seeds := []string{
		"2026-08-15",
		"today",
		"yesterday",
		"7 days ago",
		"2 weeks ago",
		"1 month ago",
		"",
		"   TODAY   ",
		"99999 days ago",
		"not-a-date",
		"2026-13-40",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	f.Fuzz(func(t *testing.T, s string) {
		day, err := ResolveDayInput(s, now)
		if err != nil {
			return
		}
		// Any accepted input must resolve to a parseable day key
		if _, parseErr := bucket.ParseDayKey(day); parseErr != nil {
			t.Errorf("ResolveDayInput(%q) returned unparseable day %q: %v", s, day, parseErr)
		}
	})
}
