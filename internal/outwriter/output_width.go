package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/endora-app/endoscope/internal/contract"
)

// getMaxLabelWidth calculates the maximum width for cohort labels in table
// output based on terminal width.
func getMaxLabelWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the day, value and label columns with borders and
	// padding.
	available := termWidth - 40
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateLabel shortens a label to maxWidth with an ellipsis.
func truncateLabel(label string, maxWidth int) string {
	if len(label) <= maxWidth {
		return label
	}
	if maxWidth <= 3 {
		return label[:maxWidth]
	}
	return label[:maxWidth-3] + "..."
}
