// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"

	"github.com/endora-app/endoscope/internal/contract"
)

// LogQueryHeader prints a concise, 2-line header for each query.
func LogQueryHeader(cfg *contract.Config, title string) {
	if cfg.UseEmojis {
		fmt.Printf("🔎 %s (timezone: %s)\n", title, cfg.Zone)
		fmt.Printf("📅 Range: %s → %s\n", cfg.RangeStart, cfg.RangeEnd)
		return
	}
	fmt.Printf("%s (timezone: %s)\n", title, cfg.Zone)
	fmt.Printf("Range: %s -> %s\n", cfg.RangeStart, cfg.RangeEnd)
}
