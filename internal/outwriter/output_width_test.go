package outwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/endora-app/endoscope/internal/contract"
)

func TestGetMaxLabelWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{
			name:     "narrow terminal clamps to minimum",
			width:    40,
			expected: 12,
		},
		{
			name:     "standard terminal",
			width:    80,
			expected: 40,
		},
		{
			name:     "mid-size terminal",
			width:    60,
			expected: 20,
		},
		{
			name:     "wide terminal clamps to maximum",
			width:    200,
			expected: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxLabelWidth(cfg))
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		maxWidth int
		expected string
	}{
		{
			name:     "short label unchanged",
			label:    "Jun 2026",
			maxWidth: 20,
			expected: "Jun 2026",
		},
		{
			name:     "long label truncated with ellipsis",
			label:    "Jan 2 - Jan 15, 2026",
			maxWidth: 12,
			expected: "Jan 2 - J...",
		},
		{
			name:     "tiny width hard cut",
			label:    "Week of Jan 19",
			maxWidth: 3,
			expected: "Wee",
		},
		{
			name:     "exact fit unchanged",
			label:    "Q1 2026",
			maxWidth: 7,
			expected: "Q1 2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncateLabel(tt.label, tt.maxWidth))
		})
	}
}
