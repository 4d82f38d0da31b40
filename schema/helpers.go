package schema

import (
	"fmt"
	"math"
)

// Round1 rounds a float to one decimal place, the precision used for
// retention percentages.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// FormatDurationMs renders a millisecond duration in compact human form,
// e.g. "1h 12m", "4m 32s", "45s".
func FormatDurationMs(ms float64) string {
	seconds := int64(ms) / 1000
	minutes := seconds / 60
	hours := minutes / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatPct renders a retention percentage with one decimal.
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}
