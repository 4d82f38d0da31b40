package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/endora-app/endoscope/core/bucket"
)

// relativeDayPattern matches phrases like "7 days ago" or "2 weeks ago".
var relativeDayPattern = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks|month|months)\s+ago$`)

// ResolveDayInput turns a user-supplied date input into a canonical day key.
// Accepts an absolute day key ("2026-01-15"), "today", "yesterday", or a
// relative phrase ("N days ago", "N weeks ago", "N months ago").
func ResolveDayInput(s string, now time.Time) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "today":
		return bucket.DayKey(now), nil
	case "yesterday":
		return bucket.AddDays(bucket.DayKey(now), -1)
	}

	if _, err := bucket.ParseDayKey(s); err == nil {
		return s, nil
	}

	m := relativeDayPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("expected a day key (2006-01-02) or 'N days ago', got %q", s)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("invalid count in %q: %w", s, err)
	}

	today := bucket.DayKey(now)
	switch {
	case strings.HasPrefix(m[2], "day"):
		return bucket.AddDays(today, -n)
	case strings.HasPrefix(m[2], "week"):
		return bucket.AddDays(today, -7*n)
	default: // months
		t, err := bucket.ParseDayKey(today)
		if err != nil {
			return "", err
		}
		return bucket.DayKey(t.AddDate(0, -n, 0)), nil
	}
}
